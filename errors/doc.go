/*
Package errors implements custom error interfaces for the keyring.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. All errors that describe
a keyring failure (duplicate address, missing account, invalid registration,
crypto provider failure) are declared here so that callers can test for them
using the Is method:

	if errors.ErrAccountNotFound.Is(err) {
		...
	}

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
