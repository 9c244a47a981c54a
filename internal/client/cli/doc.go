// Package cli implements the interactive PhotoVault client: a small REPL
// over the photo service, plus the wiring that assembles the storage engine
// from the resolved sync topology and the client configuration.
//
// Commands
//
//	init              generate a key pair, store it in the OS keychain,
//	                  print the recovery phrase
//	restore-key       rebuild the key from a recovery phrase
//	phrase            show the recovery phrase again
//	backup <file>     encrypt and upload a photo
//	list, l           list the local library
//	get <cid> [out]   restore a photo
//	delete <cid>      delete locally and unpin remotely
//	sync              pull metadata recorded by other devices
//	status            show topology, device id and library size
//	lock              wipe the in-memory key
//	reset             erase the local library and forget the key
//	exit, quit        leave
package cli
