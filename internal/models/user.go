package models

// User is one row of the users table. Password holds the hex-encoded
// SHA-256 digest of the cleartext, never the cleartext itself.
// PrivateKey is the user's signing key sealed under the master key;
// Address is derived from that key and must never drift from it.
type User struct {
	ID              int64  `db:"id"`
	CompanyName     string `db:"company_name"`
	Username        string `db:"username"`
	Password        string `db:"password"`
	WatermarkBase64 string `db:"watermark_base64"`
	Address         string `db:"address"`
	PrivateKey      string `db:"privatekey"`
}

// Image is one row of the images table. The same cid may appear on
// multiple rows when different users submit identical bytes.
type Image struct {
	ID     int64  `db:"id"`
	CID    string `db:"cid"`
	UserID int64  `db:"user_id"`
}
