package normalize

import (
	"reflect"
	"strings"

	"github.com/joseph-ayodele/minutas/internal/entity"
	"github.com/joseph-ayodele/minutas/internal/textutil"
)

// uppercaseExcluded are JSON keys whose values keep their case.
var uppercaseExcluded = map[string]struct{}{
	"correo":           {},
	"email":            {},
	"url":              {},
	"id_evento_google": {},
	"id_google":        {},
	"link_meet":        {},
	"meet_link":        {},
}

// Uppercase cleans and upper-cases every string of the payload in place, except the
// fields whose JSON key is in the exclusion set.
func Uppercase(p *entity.Payload) {
	uppercaseValue(reflect.ValueOf(p).Elem())
}

func uppercaseValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(textutil.Upper(v.String()))
		}
	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if _, skip := uppercaseExcluded[name]; skip {
				continue
			}
			uppercaseValue(v.Field(i))
		}
	case reflect.Slice:
		for i := range v.Len() {
			uppercaseValue(v.Index(i))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			uppercaseValue(v.Elem())
		}
	}
}
