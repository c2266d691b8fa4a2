package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Usage is printed above the flag defaults.
const Usage = `Usage: meshconv [-I IMPORTER] [-C CONVERTER]... [-i opts] [-c opts]...
                [--only-attributes N1,N2-N3] [--remove-duplicates]
                [--remove-duplicates-fuzzy EPS] [--mesh N] [--level N]
                [--concatenate-meshes] [--info] [--bounds] [-v] [--profile]
                [--config FILE] input [output]

Flags may also follow the positional arguments; everything after -- is
positional.
`

// stringList is a flag that can be given more than once.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

// fuzzyFlag records the epsilon and that fuzzy removal was requested.
type fuzzyFlag struct {
	set     bool
	epsilon float64
}

func (f *fuzzyFlag) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.epsilon, 'g', -1, 64)
}

func (f *fuzzyFlag) Set(v string) error {
	eps, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	f.set, f.epsilon = true, eps
	return nil
}

var (
	flagConfig     = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory")

	flagOnlyAttributes = flag.String("only-attributes", "", "Keep only the listed attribute IDs, e.g. 0,2-3")
	flagRemoveDups     = flag.Bool("remove-duplicates", false, "Remove duplicate vertices")
	flagMesh           = flag.Int("mesh", -1, "Mesh to import")
	flagLevel          = flag.Int("level", -1, "Mesh level to import")
	flagConcatenate    = flag.Bool("concatenate-meshes", false, "Flatten the scene and concatenate all meshes")

	flagInfo    = flag.Bool("info", false, "Print info about the input and exit")
	flagBounds  = flag.Bool("bounds", false, "Print position bounds of each mesh (implies --info)")
	flagProfile = flag.Bool("profile", false, "Measure import and conversion time")
)

// Flags with short and long spellings, or repeatable ones.
var (
	flagImporter         string
	flagImporterOptions  string
	flagConverters       stringList
	flagConverterOptions stringList
	flagFuzzy            fuzzyFlag
	flagVerbose          bool
	flagGRF              stringList
)

func init() {
	flag.StringVar(&flagImporter, "I", "", "Importer plugin")
	flag.StringVar(&flagImporter, "importer", "", "Importer plugin")
	flag.StringVar(&flagImporterOptions, "i", "", "Importer options as key=val,key2=val2")
	flag.StringVar(&flagImporterOptions, "importer-options", "", "Importer options as key=val,key2=val2")
	flag.Var(&flagConverters, "C", "Converter plugin (repeatable)")
	flag.Var(&flagConverters, "converter", "Converter plugin (repeatable)")
	flag.Var(&flagConverterOptions, "c", "Options for the converter at the same position (repeatable)")
	flag.Var(&flagConverterOptions, "converter-options", "Options for the converter at the same position (repeatable)")
	flag.Var(&flagFuzzy, "remove-duplicates-fuzzy", "Remove duplicate vertices within `EPS`")
	flag.BoolVar(&flagVerbose, "v", false, "Verbose output")
	flag.BoolVar(&flagVerbose, "verbose", false, "Verbose output")
	flag.Var(&flagGRF, "grf", "GRF archive searched for the input (repeatable)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), Usage)
		flag.PrintDefaults()
	}
	// CommandLine exits on a parse error.
	positional, _ = parseInterspersed(flag.CommandLine, os.Args[1:])
}

// positional holds the arguments left once flags are parsed.
var positional []string

// parseInterspersed parses fs from args, letting flags follow positional
// arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var out []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(out, rest...), nil
		}
		if len(rest) == 0 {
			return out, nil
		}
		out = append(out, rest[0])
		args = rest[1:]
	}
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// Args returns the positional arguments: input and optional output.
func Args() []string {
	return positional
}

// Info reports whether only information about the input was requested.
func Info() bool {
	return *flagInfo || *flagBounds
}

// Bounds reports whether --bounds was given.
func Bounds() bool {
	return *flagBounds
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if flagImporter != "" {
		cfg.Convert.Importer = flagImporter
	}
	if flagImporterOptions != "" {
		cfg.Convert.ImporterOptions = flagImporterOptions
	}
	if len(flagConverters) > 0 {
		cfg.Convert.Converters = flagConverters
	}
	if len(flagConverterOptions) > 0 {
		cfg.Convert.ConverterOptions = flagConverterOptions
	}
	if *flagOnlyAttributes != "" {
		cfg.Pipeline.OnlyAttributes = *flagOnlyAttributes
	}
	if *flagRemoveDups {
		cfg.Pipeline.RemoveDuplicates = true
	}
	if flagFuzzy.set {
		cfg.Pipeline.RemoveDuplicatesFuzzy = true
		cfg.Pipeline.FuzzyEpsilon = flagFuzzy.epsilon
	}
	if *flagMesh >= 0 {
		cfg.Pipeline.Mesh = *flagMesh
	}
	if *flagLevel >= 0 {
		cfg.Pipeline.Level = *flagLevel
	}
	if *flagConcatenate {
		cfg.Pipeline.Concatenate = true
	}
	if *flagProfile {
		cfg.Pipeline.Profile = true
	}
	if flagVerbose {
		cfg.Pipeline.Verbose = true
	}
	if len(flagGRF) > 0 {
		cfg.Data.GRFPaths = append(cfg.Data.GRFPaths, flagGRF...)
	}
}
