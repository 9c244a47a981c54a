package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/photovault/photovault/internal/common"
	"github.com/photovault/photovault/internal/cryptox"
)

// Init generates a fresh key pair, stores the secret key in the OS keychain
// and prints the recovery phrase. An existing key is only replaced after an
// explicit confirmation: replacing it orphans everything encrypted before.
func (a *App) Init(ctx context.Context) error {
	if a.isUnlocked() {
		ok, err := Confirm(a.reader, "A key already exists. Generating a new one makes old backups unreadable. Continue?", os.Stdout)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	pair, err := cryptox.GenerateKeyPair()
	if err != nil {
		fmt.Println("Key generation failed:", err)
		return err
	}

	if err := a.keys.StoreSecretKey(pair.SecretKey); err != nil {
		fmt.Println("Could not store the key in the keychain:", err)
		return err
	}

	common.WipeByteArray(a.secretKey)
	a.secretKey = pair.SecretKey

	fmt.Println("Vault initialized.")
	return a.Phrase(ctx)
}

// Phrase prints the recovery phrase of the current key. It is the only
// backup of the key; without it a lost device means lost photos.
func (a *App) Phrase(ctx context.Context) error {
	if !a.isUnlocked() {
		fmt.Println("No key loaded. Run 'init' or 'restore-key' first.")
		return nil
	}

	phrase, err := cryptox.KeyToRecoveryPhrase(a.secretKey)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("Recovery phrase (write it down, it is shown in full only here):")
	fmt.Println(phrase)
	return nil
}

// RestoreKey rebuilds the secret key from a recovery phrase and stores it.
func (a *App) RestoreKey(ctx context.Context) error {
	phrase, err := GetSimpleText(a.reader, "Enter your recovery phrase", os.Stdout)
	if err != nil {
		return err
	}

	key, err := cryptox.RecoveryPhraseToKey(phrase)
	if err != nil {
		fmt.Println("That phrase is not valid:", err)
		return err
	}

	if err := a.keys.StoreSecretKey(key); err != nil {
		fmt.Println("Could not store the key in the keychain:", err)
		return err
	}

	common.WipeByteArray(a.secretKey)
	a.secretKey = key

	fmt.Println("Key restored. Run 'sync' to pull your library from the index.")
	return nil
}

// Backup encrypts and uploads one file.
func (a *App) Backup(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		fmt.Println("Vault is locked. Run 'init' or 'restore-key' first.")
		return nil
	}
	if len(args) == 0 {
		fmt.Println("Usage: backup <file>")
		return nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("Could not read file:", err)
		return err
	}

	rec, err := a.photos.Backup(ctx, filepath.Base(path), data, detectMimeType(path, data), a.secretKey)
	if err != nil {
		fmt.Println("Could not back up the photo, it stays local only. Try again later:", err)
		return err
	}

	fmt.Printf("Backed up %s (%d bytes) as %s\n", rec.FileName, rec.FileSize, rec.CID)
	return nil
}

// List prints the local library, newest first.
func (a *App) List(ctx context.Context) error {
	photos, err := a.photos.List(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if len(photos) == 0 {
		fmt.Println("No photos yet.")
		return nil
	}

	for _, p := range photos {
		cached := " "
		if p.EncryptedBlob != nil {
			cached = "*"
		}
		fmt.Printf("%s %-30s %10d  %s  %s\n", cached, p.FileName, p.FileSize, p.UploadedAt.Format("2006-01-02 15:04"), p.CID)
	}
	fmt.Println("(* = ciphertext cached locally)")
	return nil
}

// Get restores one photo by CID. With a second argument the decrypted bytes
// are written to that path, otherwise next to the current directory under
// the recorded file name.
func (a *App) Get(ctx context.Context, args []string) error {
	if !a.isUnlocked() {
		fmt.Println("Vault is locked. Run 'init' or 'restore-key' first.")
		return nil
	}
	if len(args) == 0 {
		fmt.Println("Usage: get <cid> [output-file]")
		return nil
	}

	cid := args[0]
	data, mimeType, err := a.photos.Restore(ctx, cid, a.secretKey)
	if err != nil {
		fmt.Println(restoreFailureMessage(err))
		return err
	}

	out := cid + extensionFor(mimeType)
	if len(args) > 1 {
		out = args[1]
	}

	if err := os.WriteFile(out, data, 0o600); err != nil {
		fmt.Println("Could not write file:", err)
		return err
	}

	fmt.Printf("Restored %s (%d bytes, %s)\n", out, len(data), mimeType)
	return nil
}

// Delete removes a photo locally and asks the backends to unpin it.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: delete <cid>")
		return nil
	}

	if err := a.photos.Delete(ctx, args[0]); err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Println("Deleted.")
	return nil
}

// Sync pulls metadata of photos backed up by other devices.
func (a *App) Sync(ctx context.Context) error {
	if !a.isUnlocked() {
		fmt.Println("Vault is locked. Run 'init' or 'restore-key' first.")
		return nil
	}

	added, err := a.photos.Sync(ctx, a.secretKey)
	if err != nil {
		fmt.Println("Sync failed:", err)
		return err
	}

	fmt.Printf("Sync complete, %d new photo(s).\n", added)
	return nil
}

// Status prints the resolved topology and library size.
func (a *App) Status(ctx context.Context) error {
	fmt.Printf("Profile: %s  Mode: %s  Backend: %s\n", a.syncCfg.Profile, a.syncCfg.Mode, a.syncCfg.StorageBackend)
	fmt.Printf("Local node: %v  Pinning backup: %v  P2P: %v\n", a.syncCfg.UseLocalNode, a.syncCfg.UsePinataBackup, a.syncCfg.Features.P2PSync)

	if deviceID, err := a.keys.DeviceID(); err == nil {
		fmt.Println("Device:", deviceID)
	}

	if n, err := a.photos.Count(ctx); err == nil {
		fmt.Printf("Photos in local library: %d\n", n)
	}

	if a.isUnlocked() {
		fmt.Println("Vault: unlocked")
	} else {
		fmt.Println("Vault: locked")
	}
	return nil
}

// Reset wipes the local library and forgets the key on this device. Remote
// ciphertext stays; the recovery phrase is the only way back in.
func (a *App) Reset(ctx context.Context) error {
	ok, err := Confirm(a.reader, "Erase the local library and forget the key on this device? Only the recovery phrase can restore access.", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.photos.Reset(ctx); err != nil {
		fmt.Println("Error:", err)
		return err
	}

	if err := a.keys.ClearSecretKey(); err != nil {
		fmt.Println("Could not clear the keychain:", err)
		return err
	}

	common.WipeByteArray(a.secretKey)
	a.secretKey = nil

	fmt.Println("Device reset.")
	return nil
}

// Lock wipes the in-memory key. The keychain copy stays; the next start
// unlocks again.
func (a *App) Lock(ctx context.Context) error {
	common.WipeByteArray(a.secretKey)
	a.secretKey = nil
	fmt.Println("Vault locked.")
	return nil
}

func restoreFailureMessage(err error) string {
	if errors.Is(err, common.ErrUnverifiable) {
		return "The downloaded data failed verification. It may be corrupted, or this is not your key."
	}
	return "Could not restore the photo: " + err.Error()
}

func detectMimeType(path string, data []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
