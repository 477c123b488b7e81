/*
Package store provides durable storage of keyring registrations on top of the
tendermint key value database.
*/
package store
