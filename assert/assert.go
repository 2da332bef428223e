package assert

import "github.com/quarry-gg/quarry/qerror"

// IsTrue panics with a qerror.QuarryError if ok is false. It is used for
// invariants that indicate a programming error rather than a recoverable
// condition, such as a chunk present without its paired light chunk.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(qerror.New(message, args...))
	}
}
