package convert

import "fmt"

// Tier identifies one priority class of the conversion registry. Lookup
// probes tiers in declaration order, so a builtin converter always shadows a
// standard-utility one of the same name.
type Tier int

// Possible values for Tier.
const (
	// BuiltinTier holds shell-intrinsic commands.
	BuiltinTier Tier = iota
	// StandardTier holds conventional external utilities with standardized
	// behavior.
	StandardTier
	// ExternalTier holds commands that are deliberately delegated to an
	// external process rather than translated.
	ExternalTier

	numTiers
)

// String returns the name of the tier.
func (t Tier) String() string {
	switch t {
	case BuiltinTier:
		return "builtin"
	case StandardTier:
		return "standard"
	case ExternalTier:
		return "external"
	default:
		return "bad"
	}
}

// A ConverterFunc translates the arguments of a single command into output
// dialect source. Implementations are pure functions: they never fail, and
// degrade to pass-through or annotated output for argument shapes they do
// not understand.
type ConverterFunc func(args []string) string

// DuplicateRegistration is returned by [Registry.RegisterNew] when the name
// is already taken in the tier.
type DuplicateRegistration struct {
	Tier Tier
	Name string
}

// Error implements the error interface.
func (e *DuplicateRegistration) Error() string {
	return fmt.Sprintf("converter %q already registered in %v tier", e.Name, e.Tier)
}

// Registry maps command names to converters across priority tiers. Build it
// up fully before use; afterwards it must be treated as immutable, which
// makes it safe to share between concurrent conversions.
type Registry struct {
	tiers [numTiers]map[string]ConverterFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.tiers {
		r.tiers[i] = make(map[string]ConverterFunc)
	}
	return r
}

// Register adds a converter for name in the given tier, replacing any
// previous registration of the same name.
func (r *Registry) Register(t Tier, name string, f ConverterFunc) {
	r.tiers[t][name] = f
}

// RegisterNew is like Register, but returns a [*DuplicateRegistration] error
// instead of replacing an existing entry.
func (r *Registry) RegisterNew(t Tier, name string, f ConverterFunc) error {
	if _, ok := r.tiers[t][name]; ok {
		return &DuplicateRegistration{Tier: t, Name: name}
	}
	r.tiers[t][name] = f
	return nil
}

// Lookup finds the converter for name, probing the tiers in priority order.
func (r *Registry) Lookup(name string) (ConverterFunc, Tier, bool) {
	for t := Tier(0); t < numTiers; t++ {
		if f, ok := r.tiers[t][name]; ok {
			return f, t, true
		}
	}
	return nil, 0, false
}

// Convert translates one command through the registry. Unregistered commands
// go through [Fallback].
func (r *Registry) Convert(name string, args []string) string {
	return resolveNotes(r.convert(name, args), false)
}

// convert is Convert without note resolution, for callers that compose the
// result further.
func (r *Registry) convert(name string, args []string) string {
	if f, _, ok := r.Lookup(name); ok {
		return f(args)
	}
	return Fallback(name, args)
}

// Fallback renders a command the registry knows nothing about: an explicit
// external invocation with every argument quoted, so the output shell runs
// it outside the structured pipeline instead of guessing at semantics.
func Fallback(name string, args []string) string {
	if len(args) == 0 {
		return "^" + name
	}
	return "^" + name + " " + quoteAll(args)
}

// Default is the registry with the full converter roster. It is built once
// and never mutated.
var Default = NewDefault()

// NewDefault returns a fresh registry populated with every converter this
// package defines.
func NewDefault() *Registry {
	r := NewRegistry()

	builtins := map[string]ConverterFunc{
		"cd":    convertCd,
		"pwd":   convertPwd,
		"exit":  convertExit,
		"true":  convertTrue,
		"false": convertFalse,
		"read":  convertRead,
		"test":  convertTest,
		"[":     convertBracket,
		"kill":  convertKill,
		"jobs":  convertJobs,
	}
	for name, f := range builtins {
		r.Register(BuiltinTier, name, f)
	}

	standard := map[string]ConverterFunc{
		"basename": convertBasename,
		"cat":      convertCat,
		"chmod":    convertChmod,
		"chown":    convertChown,
		"cp":       convertCp,
		"cut":      convertCut,
		"date":     convertDate,
		"dirname":  convertDirname,
		"echo":     convertEcho,
		"find":     convertFind,
		"grep":     convertGrep,
		"head":     convertHead,
		"ls":       convertLs,
		"mkdir":    convertMkdir,
		"mv":       convertMv,
		"realpath": convertRealpath,
		"rm":       convertRm,
		"rmdir":    convertRmdir,
		"sed":      convertSed,
		"seq":      convertSeq,
		"sort":     convertSort,
		"stat":     convertStat,
		"tail":     convertTail,
		"tee":      convertTee,
		"uniq":     convertUniq,
		"wc":       convertWc,
	}
	for name, f := range standard {
		r.Register(StandardTier, name, f)
	}

	external := map[string]ConverterFunc{
		"awk":    convertAwk,
		"which":  convertWhich,
		"whoami": convertWhoami,
		"ps":     convertPs,
	}
	for name, f := range external {
		r.Register(ExternalTier, name, f)
	}

	return r
}
