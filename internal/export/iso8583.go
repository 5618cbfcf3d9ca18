package export

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/alovak/cardforge/internal/engine"
	"github.com/alovak/cardforge/internal/expiry"
	"github.com/moov-io/iso8583"
)

const (
	authorizationMTI = "0100"
	// purchase, default accounts
	processingCode = "000000"
)

// ISO8583 packs every card into an 0100 authorisation request using the
// 1987 ASCII spec (DE2 PAN, DE3 processing code, DE14 YYMM expiry) and
// renders one hex message per line. The CVV is not carried.
func ISO8583(cards []engine.Card) (string, error) {
	lines := make([]string, len(cards))
	for i, c := range cards {
		b, err := PackAuthorization(c)
		if err != nil {
			return "", fmt.Errorf("packing card %d: %w", i, err)
		}
		lines[i] = strings.ToUpper(hex.EncodeToString(b))
	}
	return strings.Join(lines, "\n"), nil
}

// PackAuthorization builds the wire bytes of an authorisation request for c.
func PackAuthorization(c engine.Card) ([]byte, error) {
	msg := iso8583.NewMessage(iso8583.Spec87)
	msg.MTI(authorizationMTI)
	if err := msg.Field(2, c.Number); err != nil {
		return nil, fmt.Errorf("setting DE2: %w", err)
	}
	if err := msg.Field(3, processingCode); err != nil {
		return nil, fmt.Errorf("setting DE3: %w", err)
	}
	if err := msg.Field(14, expiry.YYMM(c.ExpMonth, c.ExpYear)); err != nil {
		return nil, fmt.Errorf("setting DE14: %w", err)
	}
	b, err := msg.Pack()
	if err != nil {
		return nil, fmt.Errorf("packing message: %w", err)
	}
	return b, nil
}

// UnpackAuthorization reads PAN and expiry back out of a packed request.
// The returned card has no CVV.
func UnpackAuthorization(b []byte) (engine.Card, error) {
	msg := iso8583.NewMessage(iso8583.Spec87)
	if err := msg.Unpack(b); err != nil {
		return engine.Card{}, fmt.Errorf("unpacking message: %w", err)
	}
	mti, err := msg.GetMTI()
	if err != nil {
		return engine.Card{}, fmt.Errorf("reading MTI: %w", err)
	}
	if mti != authorizationMTI {
		return engine.Card{}, fmt.Errorf("unexpected MTI %s", mti)
	}
	pan, err := msg.GetString(2)
	if err != nil {
		return engine.Card{}, fmt.Errorf("reading DE2: %w", err)
	}
	yymm, err := msg.GetString(14)
	if err != nil {
		return engine.Card{}, fmt.Errorf("reading DE14: %w", err)
	}
	if len(yymm) < 4 {
		// numeric field specs drop leading zeros
		yymm = strings.Repeat("0", 4-len(yymm)) + yymm
	}
	mm, yy, err := expiry.ParseYYMM(yymm)
	if err != nil {
		return engine.Card{}, fmt.Errorf("DE14: %w", err)
	}
	return newCard(pan, mm, yy, ""), nil
}
