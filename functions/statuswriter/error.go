package statuswriter

const (
	ErrParse = ErrType(iota)
	ErrShape
	ErrMissingProperty
	ErrStorageWrite
)

type ErrType int

func (o ErrType) String() string {
	switch o {
	case ErrParse:
		return "parse"
	case ErrShape:
		return "shape"
	case ErrMissingProperty:
		return "missing property"
	case ErrStorageWrite:
		return "storage write"
	}
	return "unknown"
}

// HandlerErr is returned for every failure of HandleRequest. Type reports
// which stage failed; Unwrap exposes the underlying cause, if any.
type HandlerErr struct {
	errType  ErrType
	property string
	msg      string
	err      error
}

func (o HandlerErr) Error() string {
	if o.err == nil {
		return o.msg
	}
	return o.msg + " - " + o.err.Error()
}

func (o HandlerErr) Type() ErrType {
	return o.errType
}

// Property names the offending property of an ErrMissingProperty error.
func (o HandlerErr) Property() string {
	return o.property
}

func (o HandlerErr) Unwrap() error {
	return o.err
}
