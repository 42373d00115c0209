package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/models"
)

type UserRepository interface {
	// SelectByUsername returns the row for username, or (nil, nil) when
	// no such user exists. More than one row would be a model violation;
	// the unique constraint on username prevents it.
	SelectByUsername(username string) (*models.User, error)
	// Insert writes a new user row and fills in the assigned id.
	Insert(user *models.User) error
	// UpdateWatermarkSlot overwrites the user's watermark slot. Idempotent
	// under equal values.
	UpdateWatermarkSlot(userID int64, watermarkBase64 string) error
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

func (r *userRepository) SelectByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, company_name, username, password, watermark_base64, address, privatekey FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Insert(user *models.User) error {
	query := `INSERT INTO users (company_name, username, password, watermark_base64, address, privatekey) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowx(query, user.CompanyName, user.Username, user.Password, user.WatermarkBase64, user.Address, user.PrivateKey).Scan(&user.ID)
}

func (r *userRepository) UpdateWatermarkSlot(userID int64, watermarkBase64 string) error {
	_, err := r.db.Exec(`UPDATE users SET watermark_base64 = $1 WHERE id = $2`, watermarkBase64, userID)
	return err
}
