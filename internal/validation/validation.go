// Package validation holds the field checks used before the roster or the
// display settings are changed. Every failure carries the message shown to
// the operator.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/AdamBeresnev/dam-aji/internal/bracket"
)

const (
	nameMinLength        = 2
	nameMaxLength        = 100
	associationMinLength = 3
	associationMaxLength = 150
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s\x{00C0}-\x{017F}\x{0100}-\x{024F}\x{1E00}-\x{1EFF}'.-]+$`)
	icRegex    = regexp.MustCompile(`^\d{12}$`)
	phoneRegex = regexp.MustCompile(`^(\+?6?0)(1[0-9]|3|4|5|6|7|8|9)\d{7,8}$`)

	icStripper    = strings.NewReplacer("-", "", " ", "", "\t", "")
	phoneStripper = strings.NewReplacer("-", "", " ", "", "\t", "", "(", "", ")", "")
)

func PlayerName(name string) error {
	trimmed := strings.TrimSpace(name)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case trimmed == "":
		return errors.New("Nama pemain diperlukan")
	case length < nameMinLength:
		return fmt.Errorf("Nama pemain mestilah sekurang-kurangnya %d aksara", nameMinLength)
	case length > nameMaxLength:
		return fmt.Errorf("Nama pemain tidak boleh melebihi %d aksara", nameMaxLength)
	case !nameRegex.MatchString(trimmed):
		return errors.New("Nama pemain mengandungi aksara yang tidak sah")
	}
	return nil
}

func Association(association string) error {
	trimmed := strings.TrimSpace(association)
	length := utf8.RuneCountInString(trimmed)

	switch {
	case trimmed == "":
		return errors.New("Persatuan/Daerah diperlukan")
	case length < associationMinLength:
		return fmt.Errorf("Persatuan/Daerah mestilah sekurang-kurangnya %d aksara", associationMinLength)
	case length > associationMaxLength:
		return fmt.Errorf("Persatuan/Daerah tidak boleh melebihi %d aksara", associationMaxLength)
	}
	return nil
}

// ICNumber checks a Malaysian identity card number (YYMMDD-PB-XXXX). Empty is
// allowed since the field is optional.
func ICNumber(ic string) error {
	if strings.TrimSpace(ic) == "" {
		return nil
	}

	clean := icStripper.Replace(ic)
	if !icRegex.MatchString(clean) {
		return errors.New("Format No. K/P tidak sah (contoh: 850101-05-1234)")
	}

	month := atoi2(clean[2:4])
	day := atoi2(clean[4:6])
	if month < 1 || month > 12 {
		return errors.New("Bulan dalam No. K/P tidak sah")
	}
	if day < 1 || day > 31 {
		return errors.New("Hari dalam No. K/P tidak sah")
	}
	return nil
}

func PhoneNumber(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	if !phoneRegex.MatchString(phoneStripper.Replace(phone)) {
		return errors.New("Format No. Telefon tidak sah (contoh: 012-3456789)")
	}
	return nil
}

// DuplicatePlayer compares names case-insensitively. excludeID lets an update
// keep the player's own current name.
func DuplicatePlayer(name string, players []bracket.Player, excludeID string) error {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, p := range players {
		if p.ID == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(p.Name)) == normalized {
			return errors.New("Nama pemain sudah wujud dalam senarai")
		}
	}
	return nil
}

func URL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Format URL tidak sah")
	}
	return nil
}

func Message(message string, maxLength int) error {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return errors.New("Mesej diperlukan")
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		return fmt.Errorf("Mesej tidak boleh melebihi %d aksara", maxLength)
	}
	return nil
}

func TournamentFormat(format bracket.TournamentFormat) error {
	if format == bracket.FormatNotSelected || !format.Valid() {
		return errors.New("Sila pilih format pertandingan yang sah")
	}
	return nil
}

// atoi2 parses exactly two ASCII digits; callers have already matched \d.
func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}
