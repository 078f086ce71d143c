package util

import (
	"fmt"
	"github.com/ValentinKolb/slashdb/lib/loader"
	"github.com/ValentinKolb/slashdb/server/common"
	"github.com/joho/godotenv"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"io"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// SetupLoaderFlags adds the fragment loading and output flags to a command
func SetupLoaderFlags(cmd *cobra.Command) {
	key := "root"
	cmd.PersistentFlags().String(key, "data", WrapString("Directory containing one sub directory of fragment files per database"))

	key = "ext"
	cmd.PersistentFlags().String(key, loader.DefaultExtension, WrapString("File extension of fragment files (without dot)"))

	key = "relaxed"
	cmd.PersistentFlags().Bool(key, false, WrapString("Parse fragment values as SEN (relaxed JSON, e.g. unquoted strings) instead of strict JSON"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "format"
	cmd.PersistentFlags().String(key, "json", WrapString("Output format of printed values (json, yaml)"))
}

// InitConfig initializes configuration from .env files and environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("slashdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLoggers configures all loggers with the configured log level
func InitLoggers(w io.Writer) error {
	return common.InitLoggers(viper.GetString("log-level"), w)
}

// GetLoaderConfig reads the loader configuration from viper
func GetLoaderConfig() loader.Config {
	return loader.Config{
		Root:      viper.GetString("root"),
		Extension: viper.GetString("ext"),
		Relaxed:   viper.GetBool("relaxed"),
	}
}

// OpenLoader creates a loader from the configuration and loads the given
// database directories (all directories below the root if none are given).
func OpenLoader(dirs ...string) (*loader.Loader, error) {
	l := loader.New(GetLoaderConfig())
	if _, err := l.Load(dirs...); err != nil {
		return nil, err
	}
	return l, nil
}

// --------------------------------------------------------------------------
// Values
// --------------------------------------------------------------------------

// ParseValue parses a command line value as JSON. Anything that is not valid
// JSON is taken as a plain string, so `name == alice` works without quotes.
func ParseValue(s string) any {
	v, err := oj.ParseString(s)
	if err != nil {
		return s
	}
	return v
}

// Print writes v to w in the configured output format
func Print(w io.Writer, v any) error {
	return PrintFormat(w, viper.GetString("format"), v)
}

// PrintFormat writes v to w as json or yaml
func PrintFormat(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", "json":
		_, err := fmt.Fprintln(w, oj.JSON(v, &ojg.Options{Indent: 2, Sort: true}))
		return err
	case "yaml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("invalid format %s (expected json or yaml)", format)
	}
}
