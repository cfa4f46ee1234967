package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-specdoc/internal/fileutil"
	"github.com/alnah/go-specdoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound      = errors.New("config file not found")
	ErrEmptyConfigName     = errors.New("config name cannot be empty")
	ErrConfigParse         = errors.New("failed to parse config")
	ErrFieldTooLong        = errors.New("field exceeds maximum length")
	ErrInvalidPreprocessor = errors.New("invalid preprocessor")
	ErrInvalidTimeout      = errors.New("invalid timeout")
	ErrInvalidTOCLevel     = errors.New("invalid TOC level")
	ErrInvalidPDF          = errors.New("invalid PDF settings")
)

// Built-in preprocessor names accepted in preprocessors[].builtin.
const (
	BuiltinGrammar   = "grammar"
	BuiltinNormalize = "normalize"
)

// DirName is the per-user config directory name under os.UserConfigDir.
const DirName = "go-specdoc"

// Field length limits.
const (
	MaxNameLength     = 100
	MaxPathLength     = 4096
	MaxArgLength      = 1024
	MaxArgs           = 64
	MaxLanguageLength = 50
	MaxTitleLength    = 200
	MaxPatternLength  = 256
	MaxMarginInches   = 2
)

// Config holds all configuration for a spec build.
type Config struct {
	Input         InputConfig          `yaml:"input"`
	Output        OutputConfig         `yaml:"output"`
	CSS           CSSConfig            `yaml:"css"`
	PDF           PDFConfig            `yaml:"pdf"`
	Preprocessors []PreprocessorConfig `yaml:"preprocessors"`
	Grammar       GrammarConfig        `yaml:"grammar"`
	TOC           TOCConfig            `yaml:"toc"`
	Timeout       string               `yaml:"timeout"` // Go duration, e.g. "30s"

	// baseDir is the directory of the loaded file; relative paths resolve against it.
	baseDir string
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Include    []string `yaml:"include"`    // Doublestar patterns for directory inputs
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same directory as the source
	HTMLOnly   bool   `yaml:"htmlOnly"`   // Skip PDF rendering
}

// CSSConfig defines the stylesheet injected into the HTML.
type CSSConfig struct {
	File string `yaml:"file"`
}

// PDFConfig defines the PDF page layout.
type PDFConfig struct {
	Paper       string  `yaml:"paper"`       // "letter" or "a4" (empty = letter)
	Margin      float64 `yaml:"margin"`      // Inches on every side (0 = 0.5)
	PageNumbers bool    `yaml:"pageNumbers"` // "page / total" footer
}

// PreprocessorConfig declares one hook. Exactly one of Builtin or Command is set.
type PreprocessorConfig struct {
	Name        string   `yaml:"name,omitempty"`        // Defaults to builtin name or command base name
	Builtin     string   `yaml:"builtin,omitempty"`     // "grammar" or "normalize"
	Command     string   `yaml:"command,omitempty"`     // Filter program, relative to the config file
	Interpreter string   `yaml:"interpreter,omitempty"` // e.g. "python3"
	Args        []string `yaml:"args,omitempty"`
}

// DisplayName returns the registration name of the hook.
func (p PreprocessorConfig) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Builtin != "":
		return p.Builtin
	case p.Command != "":
		return filepath.Base(p.Command)
	}
	return ""
}

// GrammarConfig configures the built-in grammar collector.
type GrammarConfig struct {
	Language string `yaml:"language"` // Name in the generated heading
}

// TOCConfig configures the toc command.
type TOCConfig struct {
	File     string `yaml:"file"`     // Link target (default SPECIFICATION.md)
	Title    string `yaml:"title"`    // Optional title line
	MinLevel int    `yaml:"minLevel"` // 1-6, default 2
	MaxLevel int    `yaml:"maxLevel"` // 1-6, default 6
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	for i, pattern := range c.Input.Include {
		if err := validateFieldLength(fmt.Sprintf("input.include[%d]", i), pattern, MaxPatternLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("css.file", c.CSS.File, MaxPathLength); err != nil {
		return err
	}

	if err := c.validatePDF(); err != nil {
		return err
	}

	if err := c.validatePreprocessors(); err != nil {
		return err
	}

	if err := validateFieldLength("grammar.language", c.Grammar.Language, MaxLanguageLength); err != nil {
		return err
	}

	if err := validateFieldLength("toc.title", c.TOC.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("toc.file", c.TOC.File, MaxPathLength); err != nil {
		return err
	}
	for _, lvl := range []struct {
		name  string
		value int
	}{{"toc.minLevel", c.TOC.MinLevel}, {"toc.maxLevel", c.TOC.MaxLevel}} {
		if lvl.value != 0 && (lvl.value < 1 || lvl.value > 6) {
			return fmt.Errorf("%w: %s must be between 1 and 6, got %d", ErrInvalidTOCLevel, lvl.name, lvl.value)
		}
	}

	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// validatePDF checks the paper name and margin range.
func (c *Config) validatePDF() error {
	switch strings.ToLower(c.PDF.Paper) {
	case "", "letter", "a4":
	default:
		return fmt.Errorf("%w: pdf.paper %q (must be letter or a4)", ErrInvalidPDF, c.PDF.Paper)
	}
	if c.PDF.Margin < 0 || c.PDF.Margin > MaxMarginInches {
		return fmt.Errorf("%w: pdf.margin %v must be between 0 and %d", ErrInvalidPDF, c.PDF.Margin, MaxMarginInches)
	}
	return nil
}

// validatePreprocessors checks each hook declaration and name uniqueness.
func (c *Config) validatePreprocessors() error {
	seen := make(map[string]bool, len(c.Preprocessors))
	for i, p := range c.Preprocessors {
		field := fmt.Sprintf("preprocessors[%d]", i)

		switch {
		case p.Builtin == "" && p.Command == "":
			return fmt.Errorf("%w: %s: one of builtin or command is required", ErrInvalidPreprocessor, field)
		case p.Builtin != "" && p.Command != "":
			return fmt.Errorf("%w: %s: builtin and command are mutually exclusive", ErrInvalidPreprocessor, field)
		case p.Builtin != "" && p.Builtin != BuiltinGrammar && p.Builtin != BuiltinNormalize:
			return fmt.Errorf("%w: %s: unknown builtin %q (must be %s or %s)",
				ErrInvalidPreprocessor, field, p.Builtin, BuiltinGrammar, BuiltinNormalize)
		case p.Builtin != "" && (p.Interpreter != "" || len(p.Args) > 0):
			return fmt.Errorf("%w: %s: interpreter and args apply to commands only", ErrInvalidPreprocessor, field)
		}

		if err := validateFieldLength(field+".name", p.Name, MaxNameLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".command", p.Command, MaxPathLength); err != nil {
			return err
		}
		if err := validateFieldLength(field+".interpreter", p.Interpreter, MaxPathLength); err != nil {
			return err
		}
		if len(p.Args) > MaxArgs {
			return fmt.Errorf("%w: %s.args: %d arguments (max %d)", ErrFieldTooLong, field, len(p.Args), MaxArgs)
		}
		for j, arg := range p.Args {
			if err := validateFieldLength(fmt.Sprintf("%s.args[%d]", field, j), arg, MaxArgLength); err != nil {
				return err
			}
		}

		name := p.DisplayName()
		if seen[name] {
			return fmt.Errorf("%w: %s: duplicate name %q", ErrInvalidPreprocessor, field, name)
		}
		seen[name] = true
	}
	return nil
}

// TimeoutDuration parses Timeout. Zero means "use the default".
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, c.Timeout)
	}
	return d, nil
}

// ResolvePath makes a relative path relative to the config file directory.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// ResolveCommand returns the program path for a command hook. Scripts run
// through an interpreter always resolve against the config directory; a
// directly executed command without a path separator ("sed") is left for
// PATH lookup.
func (c *Config) ResolveCommand(p PreprocessorConfig) string {
	if p.Interpreter == "" && !fileutil.IsFilePath(p.Command) {
		return p.Command
	}
	return c.ResolvePath(p.Command)
}

// BaseDir returns the directory of the loaded config file ("" for defaults).
func (c *Config) BaseDir() string { return c.baseDir }

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file:
// the grammar collector is the only hook.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Include: []string{"**/*.md"}},
		Preprocessors: []PreprocessorConfig{
			{Builtin: BuiltinGrammar},
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if abs, err := filepath.Abs(filepath.Dir(configPath)); err == nil {
		cfg.baseDir = abs
	} else {
		cfg.baseDir = filepath.Dir(configPath)
	}

	return &cfg, nil
}

// SearchPaths returns the candidate files for a config name, in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
