package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/awnumar/memguard"
	"go.uber.org/zap"

	"example.com/kwcrypt/pkg/armor"
	"example.com/kwcrypt/pkg/crypto/aeskw"
	"example.com/kwcrypt/pkg/crypto/hash"
	"example.com/kwcrypt/pkg/crypto/kdf"
	"example.com/kwcrypt/pkg/util/logging"
	"example.com/kwcrypt/pkg/util/perm"
	"example.com/kwcrypt/pkg/util/random"
	"example.com/kwcrypt/pkg/util/securemem"
)

const usage = `usage: kwcrypt [-v] [-log-format console|json] <command> [flags]

commands:
  keygen   write a random 32-byte key as hex
  derive   derive a KEK from a passphrase with scrypt
  wrap     wrap 32 bytes of key data under a KEK (RFC 3394)
  unwrap   recover key data from a 40-byte wrapped blob
`

// usageError makes run exit with status 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

type app struct {
	log    *zap.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func main() {
	memguard.CatchInterrupt()
	code := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv)
	securemem.Purge()
	os.Exit(code)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("kwcrypt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "debug logging")
	format := fs.String("log-format", "console", "log encoding: console|json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log, err := logging.New(stderr, logging.Options{Debug: *verbose, Format: *format})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer log.Sync()

	a := &app{log: log, stdin: stdin, stdout: stdout, stderr: stderr, getenv: getenv}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var cmd func([]string) error
	switch rest[0] {
	case "keygen":
		cmd = a.keygen
	case "derive":
		cmd = a.derive
	case "wrap":
		cmd = a.wrap
	case "unwrap":
		cmd = a.unwrap
	default:
		fmt.Fprintf(stderr, "unknown command %q\n%s", rest[0], usage)
		return 2
	}

	if err := cmd(rest[1:]); err != nil {
		var ue usageError
		if errors.As(err, &ue) || errors.Is(err, flag.ErrHelp) {
			if ue.msg != "" {
				fmt.Fprintln(stderr, ue.msg)
			}
			return 2
		}
		log.Error(rest[0]+" failed", zap.Error(err))
		return 1
	}
	return 0
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse maps flag parse failures to usage errors. The flag package has
// already printed the details.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usageError{}
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected arguments: %s", fs.Name(), strings.Join(fs.Args(), " "))
	}
	return nil
}

func (a *app) keygen(args []string) error {
	fs := a.newFlagSet("keygen")
	var out string
	fs.StringVar(&out, "out", "", "output file, written with mode 0600 (default: stdout)")
	if err := parse(fs, args); err != nil {
		return err
	}

	b, err := random.Bytes(aeskw.KeySize)
	if err != nil {
		return err
	}
	key := securemem.New(b)
	defer key.Destroy()

	if err := a.writeOut(out, []byte(hex.EncodeToString(key.Bytes())+"\n")); err != nil {
		return err
	}
	a.log.Info("generated key", zap.String("key_id", hash.KeyID(key.Bytes())), zap.String("out", displayPath(out)))
	return nil
}

// scryptFlags registers the scrypt cost flags.
func scryptFlags(fs *flag.FlagSet) *kdf.Params {
	p := kdf.DefaultParams()
	fs.IntVar(&p.CPUFactor, "N", p.CPUFactor, "scrypt CPU/memory cost (power of two)")
	fs.IntVar(&p.MemoryFactor, "r", p.MemoryFactor, "scrypt block size")
	fs.IntVar(&p.Parallelism, "p", p.Parallelism, "scrypt parallelism")
	return &p
}

func (a *app) derive(args []string) error {
	fs := a.newFlagSet("derive")
	var passEnv, saltHex, out string
	fs.StringVar(&passEnv, "pass-env", "", "environment variable holding the passphrase")
	fs.StringVar(&saltHex, "salt", "", "salt (hex)")
	fs.StringVar(&out, "out", "", "output file, written with mode 0600 (default: stdout)")
	params := scryptFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if passEnv == "" || saltHex == "" {
		return usagef("derive: -pass-env and -salt are required")
	}

	kek, err := a.deriveKEK(passEnv, saltHex, *params)
	if err != nil {
		return err
	}
	defer kek.Destroy()

	if err := a.writeOut(out, []byte(hex.EncodeToString(kek.Bytes())+"\n")); err != nil {
		return err
	}
	a.log.Info("derived kek", zap.String("kek_id", hash.KeyID(kek.Bytes())), zap.String("out", displayPath(out)))
	return nil
}

// kekSource selects where a command gets its KEK from.
type kekSource struct {
	file    string
	passEnv string
	salt    string
	params  *kdf.Params
}

func kekFlags(fs *flag.FlagSet) *kekSource {
	src := &kekSource{}
	fs.StringVar(&src.file, "kek", "", "KEK file (32 bytes, raw or hex, mode 0600)")
	fs.StringVar(&src.passEnv, "pass-env", "", "derive the KEK from the passphrase in this environment variable")
	fs.StringVar(&src.salt, "salt", "", "scrypt salt (hex), with -pass-env")
	src.params = scryptFlags(fs)
	return src
}

func (a *app) loadKEK(src *kekSource) (*securemem.Secret, error) {
	switch {
	case src.file != "" && src.passEnv != "":
		return nil, usagef("-kek and -pass-env are mutually exclusive")
	case src.file != "":
		if err := perm.Check0600(src.file); err != nil {
			return nil, err
		}
		b, err := os.ReadFile(src.file)
		if err != nil {
			return nil, err
		}
		kek := securemem.New(decodeMaterial(b, aeskw.KEKSize))
		memguard.WipeBytes(b)
		a.log.Debug("loaded kek", zap.String("kek_id", hash.KeyID(kek.Bytes())), zap.String("file", src.file))
		return kek, nil
	case src.passEnv != "":
		if src.salt == "" {
			return nil, usagef("-salt is required with -pass-env")
		}
		return a.deriveKEK(src.passEnv, src.salt, *src.params)
	default:
		return nil, usagef("a KEK is required: -kek FILE or -pass-env NAME -salt HEX")
	}
}

func (a *app) deriveKEK(passEnv, saltHex string, p kdf.Params) (*securemem.Secret, error) {
	pass := a.getenv(passEnv)
	if pass == "" {
		return nil, fmt.Errorf("environment variable %s is empty", passEnv)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, usagef("-salt: %v", err)
	}
	p.KeyLength = aeskw.KEKSize
	kek, err := kdf.Scrypt([]byte(pass), salt, p)
	if err != nil {
		return nil, err
	}
	a.log.Debug("derived kek", zap.Int("N", p.CPUFactor), zap.Int("r", p.MemoryFactor), zap.Int("p", p.Parallelism))
	return securemem.New(kek), nil
}

func (a *app) wrap(args []string) error {
	fs := a.newFlagSet("wrap")
	src := kekFlags(fs)
	var in, out string
	var armored, hexOut bool
	fs.StringVar(&in, "in", "-", "key data file, 32 bytes raw or hex (default: stdin)")
	fs.StringVar(&out, "out", "", "output file (default: stdout)")
	fs.BoolVar(&armored, "armor", false, "ASCII armor output")
	fs.BoolVar(&hexOut, "hex", false, "hex output")
	if err := parse(fs, args); err != nil {
		return err
	}
	if armored && hexOut {
		return usagef("wrap: -armor and -hex are mutually exclusive")
	}

	kek, err := a.loadKEK(src)
	if err != nil {
		return err
	}
	defer kek.Destroy()

	data, err := a.readIn(in)
	if err != nil {
		return err
	}
	key := securemem.New(decodeMaterial(data, aeskw.KeySize))
	memguard.WipeBytes(data)
	defer key.Destroy()

	wrapped, err := aeskw.Wrap(key.Bytes(), kek.Bytes())
	if err != nil {
		return err
	}

	kekID := hash.KeyID(kek.Bytes())
	var output []byte
	switch {
	case armored:
		output, err = armor.Encode(wrapped, map[string]string{"KEK-ID": kekID})
		if err != nil {
			return err
		}
	case hexOut:
		output = []byte(hex.EncodeToString(wrapped) + "\n")
	default:
		output = wrapped
	}
	if err := a.writeOut(out, output); err != nil {
		return err
	}
	a.log.Info("wrapped key", zap.String("kek_id", kekID), zap.Int("bytes", len(wrapped)))
	return nil
}

func (a *app) unwrap(args []string) error {
	fs := a.newFlagSet("unwrap")
	src := kekFlags(fs)
	var in, out string
	var hexOut bool
	fs.StringVar(&in, "in", "-", "wrapped key file: 40 bytes raw, hex or armored (default: stdin)")
	fs.StringVar(&out, "out", "", "output file, written with mode 0600 (default: stdout)")
	fs.BoolVar(&hexOut, "hex", false, "hex output")
	if err := parse(fs, args); err != nil {
		return err
	}

	kek, err := a.loadKEK(src)
	if err != nil {
		return err
	}
	defer kek.Destroy()

	data, err := a.readIn(in)
	if err != nil {
		return err
	}
	wrapped, err := decodeWrapped(data)
	if err != nil {
		return err
	}

	plain, err := aeskw.Unwrap(wrapped, kek.Bytes())
	if err != nil {
		return err
	}
	key := securemem.New(plain)
	defer key.Destroy()

	output := key.Bytes()
	if hexOut {
		output = []byte(hex.EncodeToString(key.Bytes()) + "\n")
	}
	if err := a.writeOut(out, output); err != nil {
		return err
	}
	a.log.Info("unwrapped key", zap.String("kek_id", hash.KeyID(kek.Bytes())), zap.String("key_id", hash.KeyID(key.Bytes())))
	return nil
}

func decodeWrapped(data []byte) ([]byte, error) {
	if armor.IsArmored(data) {
		_, raw, err := armor.Decode(data)
		return raw, err
	}
	return decodeMaterial(data, aeskw.WrappedKeySize), nil
}

// decodeMaterial accepts size raw bytes or their hex form. Anything else is
// returned unchanged so the length checks downstream report it.
func decodeMaterial(b []byte, size int) []byte {
	if len(b) == size {
		return append([]byte(nil), b...)
	}
	t := bytes.TrimSpace(b)
	if len(t) == 2*size {
		if d, err := hex.DecodeString(string(t)); err == nil {
			return d
		}
	}
	return append([]byte(nil), b...)
}

func (a *app) readIn(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(path)
}

func (a *app) writeOut(path string, b []byte) error {
	if path == "" {
		_, err := a.stdout.Write(b)
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func displayPath(p string) string {
	if p == "" {
		return "stdout"
	}
	return p
}
