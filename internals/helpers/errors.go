// file: internals/helpers/errors.go
package helper

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation: deteksi pelanggaran unique constraint dari pesan error
// driver. Dipakai untuk memperlakukan duplikat sebagai "sudah ada, skip"
// (idempotensi di data layer), bukan hard failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
