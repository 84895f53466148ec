package common

import (
	"errors"
	"reflect"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/torusresearch/bijson"
)

// ServiceBytes is a JSON encoded service call argument.
type ServiceBytes []byte

// CastOrUnmarshal assigns dataInter to v, decoding it first when it arrives
// as ServiceBytes.
func CastOrUnmarshal(dataInter interface{}, v interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("recover", r).WithField("stack", string(debug.Stack())).Info("could not cast in castOrUnmarshal")
			err = errors.New("could not cast in castOrUnmarshal")
		}
	}()

	if data, ok := dataInter.(ServiceBytes); ok {
		err = bijson.Unmarshal(data, v)
		if err != nil {
			log.WithField("data", string(data)).WithError(err).Info("could not unmarshal in castOrUnmarshal")
		}
		return
	}
	lhs := reflect.ValueOf(dataInter)
	rhs := reflect.ValueOf(v)
	if lhs.Kind() == reflect.Ptr && rhs.Elem().Kind() != reflect.Ptr {
		el := lhs.Elem()
		if !el.IsValid() {
			return errors.New("LHS' element is invalid and may not be casted to the RHS")
		}
		rhs.Elem().Set(el)
		return
	}
	rhs.Elem().Set(lhs)
	return
}
