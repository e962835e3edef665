package spanned

import "errors"

var errValueBeforeKey = errors.New("spanned: NextValue called without a pending key")

// Intercept is the span-aware half of the protocol, for use inside a
// Deserializer's DecodeStruct.
//
// When name and fields are not a span request it returns false and the
// caller continues with its ordinary dispatch. Otherwise it answers v with a
// three-entry map: start, end and the value, keyed by the field names exactly
// as received. value must be positioned at the spanned value; nested
// requests made through it are intercepted independently.
//
//	func (d *decoder) DecodeStruct(name string, fields []string, v spanned.Visitor) error {
//	    if ok, err := spanned.Intercept(name, fields, d.start, d.end, d, v); ok {
//	        return err
//	    }
//	    return d.DecodeAny(v)
//	}
//
// Passing the decoder itself as value is safe: the value entry is decoded
// with a new request, which is not a span request unless T is itself Spanned.
func Intercept(name string, fields []string, start, end Position, value Deserializer, v Visitor) (bool, error) {
	if !IsRequest(name, fields) {
		return false, nil
	}
	return true, v.VisitMap(&spanResponse{
		fields: fields,
		start:  start,
		end:    end,
		value:  value,
	})
}

// spanResponse yields fields[0]=start, fields[1]=end, fields[2]=value.
type spanResponse struct {
	fields  []string
	next    int
	pending bool
	start   Position
	end     Position
	value   Deserializer
}

func (r *spanResponse) NextKey() (string, bool, error) {
	if r.pending {
		// The previous value was never read; skip it.
		r.pending = false
		r.next++
	}
	if r.next >= len(r.fields) {
		return "", false, nil
	}
	r.pending = true
	return r.fields[r.next], true, nil
}

func (r *spanResponse) NextValue(fn func(Deserializer) error) error {
	if !r.pending {
		return errValueBeforeKey
	}
	r.pending = false
	slot := r.next
	r.next++
	switch slot {
	case 0:
		return fn(replayInt(int64(r.start)))
	case 1:
		return fn(replayInt(int64(r.end)))
	default:
		return fn(r.value)
	}
}
