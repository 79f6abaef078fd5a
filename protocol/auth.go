package protocol

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"
	"os"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/sys/unix"

	"github.com/brltty-go/bridge"
)

// AuthKind enumerates the authentication mechanisms the server can
// offer (spec §4.5.8).
type AuthKind uint32

const (
	AuthNone AuthKind = iota
	AuthKeyfile
	AuthCredentials
	AuthPolkit
)

// ErrAuthDenied distinguishes a credential rejection from a protocol
// error (spec §4.5.8: "Failures distinguish 'denied' from 'protocol
// error'").
var ErrAuthDenied = errors.New("authentication denied")

// Authenticator runs one authentication kind's handshake over a raw
// frame reader/writer, returning nil on success or ErrAuthDenied (or a
// transport error) on failure.
type Authenticator interface {
	Kind() AuthKind
	Authenticate(rw FrameReadWriter, peer PeerInfo) error
}

// FrameReadWriter is the minimal surface an Authenticator needs: reading
// and writing frames on the connection being authenticated.
type FrameReadWriter interface {
	ReadFrame() (Frame, error)
	WriteFrame(Frame) error
}

// PeerInfo carries what the transport can tell an Authenticator about
// the remote end without it re-deriving this itself (e.g. SO_PEERCRED
// results already resolved for a Unix socket).
type PeerInfo struct {
	UID uint32
	GID uint32
}

// NoneAuthenticator accepts unconditionally (spec §4.5.8 "none").
type NoneAuthenticator struct{}

func (NoneAuthenticator) Kind() AuthKind { return AuthNone }
func (NoneAuthenticator) Authenticate(FrameReadWriter, PeerInfo) error { return nil }

// KeyfileAuthenticator implements challenge-response against a shared
// secret read from a privileged path (spec §4.5.8 "keyfile"). The
// client must answer with HKDF-SHA256(secret, challenge) truncated to
// 32 bytes.
type KeyfileAuthenticator struct {
	Secret []byte
}

// NewKeyfileAuthenticator reads the shared secret from path.
func NewKeyfileAuthenticator(path string) (*KeyfileAuthenticator, error) {
	secret, err := os.ReadFile(path)
	if err != nil {
		return nil, bridge.NewError(bridge.KindAuth, "protocol.keyfileAuth", err)
	}
	return &KeyfileAuthenticator{Secret: secret}, nil
}

func (a *KeyfileAuthenticator) Kind() AuthKind { return AuthKeyfile }

func (a *KeyfileAuthenticator) Authenticate(rw FrameReadWriter, _ PeerInfo) error {
	challenge := make([]byte, 32)
	if _, err := rand.Read(challenge); err != nil {
		return bridge.NewError(bridge.KindAuth, "protocol.keyfileAuth", err)
	}
	if err := rw.WriteFrame(Frame{Type: FrameAuthChallenge, Payload: challenge}); err != nil {
		return err
	}
	resp, err := rw.ReadFrame()
	if err != nil {
		return err
	}
	want := a.expectedResponse(challenge)
	if !bytes.Equal(resp.Payload, want) {
		return ErrAuthDenied
	}
	return nil
}

func (a *KeyfileAuthenticator) expectedResponse(challenge []byte) []byte {
	r := hkdf.New(sha256.New, a.Secret, challenge, []byte("braillebridge-auth"))
	out := make([]byte, 32)
	io.ReadFull(r, out)
	return out
}

// CredentialsAuthenticator accepts a connection whose kernel-reported
// peer UID is in AllowedUIDs (spec §4.5.8 "credentials"). The caller
// resolves peer credentials via SO_PEERCRED (see PeerCredentials) before
// invoking Authenticate.
type CredentialsAuthenticator struct {
	AllowedUIDs map[uint32]bool
}

func NewCredentialsAuthenticator(uids ...uint32) *CredentialsAuthenticator {
	allowed := make(map[uint32]bool, len(uids))
	for _, u := range uids {
		allowed[u] = true
	}
	return &CredentialsAuthenticator{AllowedUIDs: allowed}
}

func (a *CredentialsAuthenticator) Kind() AuthKind { return AuthCredentials }

func (a *CredentialsAuthenticator) Authenticate(_ FrameReadWriter, peer PeerInfo) error {
	if a.AllowedUIDs[peer.UID] {
		return nil
	}
	return ErrAuthDenied
}

// PeerCredentials resolves the kernel-reported uid/gid of a Unix domain
// socket connection via SO_PEERCRED.
func PeerCredentials(fd int) (PeerInfo, error) {
	cred, err := unix.GetsockoptUcred(fd, unix.SOL_SOCKET, unix.SO_PEERCRED)
	if err != nil {
		return PeerInfo{}, bridge.NewError(bridge.KindAuth, "protocol.peerCredentials", err)
	}
	return PeerInfo{UID: cred.Uid, GID: cred.Gid}, nil
}

// PolkitChecker delegates an authorization decision to the host policy
// service (spec §4.5.8 "polkit"); actual D-Bus plumbing lives outside
// this module and is supplied by the caller.
type PolkitChecker func(peer PeerInfo, action string) (bool, error)

// PolkitAuthenticator defers to a PolkitChecker callback.
type PolkitAuthenticator struct {
	Action  string
	Checker PolkitChecker
}

func (a *PolkitAuthenticator) Kind() AuthKind { return AuthPolkit }

func (a *PolkitAuthenticator) Authenticate(_ FrameReadWriter, peer PeerInfo) error {
	ok, err := a.Checker(peer, a.Action)
	if err != nil {
		return bridge.NewError(bridge.KindAuth, "protocol.polkitAuth", err)
	}
	if !ok {
		return ErrAuthDenied
	}
	return nil
}
