// Package watermark invokes the external image-processing collaborator
// that embeds the watermark. The algorithm itself is opaque: bytes go in
// over stdin as a single JSON object, results come back over stdout.
package watermark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif" // registered decoders for submitted formats
	"image/jpeg"
	_ "image/png"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
)

type processInput struct {
	Base64Image string `json:"base64_image"`
}

type processOutput struct {
	WatermarkedImage *string `json:"watermarked_image"`
	WatermarkImage   *string `json:"watermark_image"`
	Error            *string `json:"error"`
}

// Executor spawns one subprocess per invocation. It holds no state, so
// concurrent requests each get their own process and pipe pair.
type Executor struct {
	command string
	args    []string
	logger  *zap.Logger
}

func NewExecutor(command string, args []string, logger *zap.Logger) *Executor {
	return &Executor{command: command, args: args, logger: logger}
}

// Apply watermarks one image. Input is raw image bytes in any decodable
// format; the image is normalized to JPEG before being handed to the
// subprocess. Returns the watermarked image and the extracted watermark,
// both base64-encoded.
func (e *Executor) Apply(ctx context.Context, imageBytes []byte) (watermarked, mark string, err error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return "", "", apperr.DecodeBytes(err)
	}

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		return "", "", apperr.EncodeBytes(err)
	}

	payload, err := json.Marshal(processInput{
		Base64Image: base64.StdEncoding.EncodeToString(jpegBuf.Bytes()),
	})
	if err != nil {
		return "", "", apperr.IO(err)
	}

	cmd := exec.CommandContext(ctx, e.command, e.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", "", apperr.IO(err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return "", "", apperr.IO(err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", apperr.IO(err)
	}

	if err := cmd.Start(); err != nil {
		e.logger.Error("Failed to start watermark process", zap.String("command", e.command), zap.Error(err))
		return "", "", apperr.FailedStartAddWatermark()
	}

	if _, err := stdin.Write(payload); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return "", "", apperr.IO(err)
	}
	// Closing stdin signals end-of-input to the subprocess.
	if err := stdin.Close(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return "", "", apperr.IO(err)
	}

	// Drain stdout and stderr independently so neither pipe can fill up
	// and deadlock the subprocess.
	type readResult struct {
		data []byte
		err  error
	}
	stdoutCh := make(chan readResult, 1)
	stderrCh := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(stdoutPipe)
		stdoutCh <- readResult{data, err}
	}()
	go func() {
		data, err := io.ReadAll(stderrPipe)
		stderrCh <- readResult{data, err}
	}()

	stdoutRes := <-stdoutCh
	stderrRes := <-stderrCh

	waitErr := cmd.Wait()

	if stdoutRes.err != nil {
		return "", "", apperr.IO(stdoutRes.err)
	}
	if stderrRes.err != nil {
		return "", "", apperr.IO(stderrRes.err)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return "", "", apperr.IO(waitErr)
		}
		stderrText := strings.TrimSpace(string(stderrRes.data))
		if stderrText != "" {
			e.logger.Error("Watermark process failed", zap.String("stderr", stderrText))
			return "", "", apperr.WatermarkProcess(stderrText)
		}
		return "", "", apperr.FailedStartAddWatermark()
	}

	var parsed processOutput
	if err := json.Unmarshal(stdoutRes.data, &parsed); err != nil {
		return "", "", apperr.JSONParse(err)
	}

	if parsed.WatermarkedImage != nil && parsed.WatermarkImage != nil {
		return *parsed.WatermarkedImage, *parsed.WatermarkImage, nil
	}
	if parsed.Error != nil {
		return "", "", apperr.WatermarkProcess(*parsed.Error)
	}
	return "", "", apperr.WatermarkProcess("missing fields")
}
