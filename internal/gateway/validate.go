package gateway

import (
	"github.com/asaskevich/govalidator"

	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// validateStruct runs govalidator's struct-tag validation (the `valid:"..."`
// tags on each request type in this package) and translates a failure into
// an InvalidArgument taxonomy error, per spec §4.4/§7's edge-validation
// requirement (door/window ids 0..3, percent 0..100, preset 1..3).
func validateStruct(req interface{}) error {
	if ok, err := govalidator.ValidateStruct(req); !ok || err != nil {
		msg := "request failed validation"
		if err != nil {
			msg = err.Error()
		}
		return taxonomy.New(taxonomy.KindInvalidArgument, msg)
	}
	return nil
}
