// Package qr renders the QR code that points diners at a restaurant's menu.
package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// modulePixels is the edge length of one QR module in the rendered PNG.
const modulePixels = 8

// MenuURL is the frontend page that renders a restaurant's public menu.
func MenuURL(frontendBaseURL, restaurantID string) string {
	return strings.TrimRight(frontendBaseURL, "/") + "/menu/" + restaurantID
}

// PNG encodes content as a QR code PNG.
func PNG(content string) ([]byte, error) {
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return code.PNG(-modulePixels)
}

// DataURL encodes content as a base64 PNG data URL.
func DataURL(content string) (string, error) {
	png, err := PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
