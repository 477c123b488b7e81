/*
Package tx implements the parts of the transaction wire format needed to sign
transactions of multi signature accounts: the signing message of a raw
transaction and the BCS encoding of a multi signature authenticator and of a
signed transaction.

The raw transaction itself is treated as opaque, already serialized bytes.
*/
package tx
