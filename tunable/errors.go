package tunable

import (
	"github.com/neuronlabs/tunables/codec"
	"github.com/neuronlabs/tunables/errors"
)

var (
	// ErrTunable is the root error classification for the tunable package.
	ErrTunable = errors.New("tunable")

	// ErrDefinition is the classification for the errors raised at the declaration time.
	ErrDefinition = errors.Wrap(ErrTunable, "definition")
	// ErrUnsupportedType is the error when the tunable or feedback value type has no codec.
	ErrUnsupportedType = errors.Wrap(ErrDefinition, "unsupported type")
	// ErrInvalidName is the error for the malformed tunable names.
	ErrInvalidName = errors.Wrap(ErrDefinition, "invalid name")
	// ErrDuplicate is the error when the class already declares given name.
	ErrDuplicate = errors.Wrap(ErrDefinition, "duplicated name")
	// ErrNotCallable is the error when the feedback accessor is not a function.
	ErrNotCallable = errors.Wrap(ErrDefinition, "not callable")
	// ErrFeedbackArity is the error when the feedback accessor doesn't take exactly the component argument.
	ErrFeedbackArity = errors.Wrap(ErrDefinition, "feedback arity")
	// ErrFeedbackReceiver is the error when the feedback accessor argument is not the component type.
	ErrFeedbackReceiver = errors.Wrap(ErrDefinition, "feedback receiver")
	// ErrFeedbackResult is the error when the feedback accessor results are not (value) or (value, error).
	ErrFeedbackResult = errors.Wrap(ErrDefinition, "feedback result")
	// ErrFeedbackKey is the error when the feedback key could not be derived.
	ErrFeedbackKey = errors.Wrap(ErrDefinition, "feedback key")
	// ErrInvalidClass is the error for the classes created with invalid models.
	ErrInvalidClass = errors.Wrap(ErrDefinition, "invalid class")

	// ErrBinding is the classification for the errors raised while binding or accessing the tunables.
	ErrBinding = errors.Wrap(ErrTunable, "binding")
	// ErrNotBound is the error when the descriptor is accessed before the instance setup.
	ErrNotBound = errors.Wrap(ErrBinding, "not bound")
	// ErrNilTable is the error when the owner doesn't provide its binding table.
	ErrNilTable = errors.Wrap(ErrBinding, "nil table")
	// ErrRebind is the error when already bound instance is set up under another namespace.
	ErrRebind = errors.Wrap(ErrBinding, "rebind")
	// ErrClassMismatch is the error when the owner is not an instance of the class.
	ErrClassMismatch = errors.Wrap(ErrBinding, "class mismatch")
	// ErrClassNotFound is the error when there is no class declared for the owner type.
	ErrClassNotFound = errors.Wrap(ErrBinding, "class not found")
	// ErrDecode is the error when the entry value could not be decoded into the tunable type.
	ErrDecode = errors.Wrap(ErrBinding, "decode")
	// ErrFeedbackCall is the error returned by the failing feedback accessor.
	ErrFeedbackCall = errors.Wrap(ErrBinding, "feedback call")
)

func unsupportedType(err error) error {
	if errors.Is(err, codec.ErrUnsupportedType) {
		return errors.Wrap(ErrUnsupportedType, err.Error())
	}
	return err
}
