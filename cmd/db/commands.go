package db

import (
	"fmt"
	"github.com/ValentinKolb/slashdb/cmd/util"
	slashdb "github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/loader"
	"github.com/spf13/cobra"
	"strings"
)

var (
	loadCmd = &cobra.Command{
		Use:   "load [dirs...]",
		Short: "Loads databases and prints a summary for each",
		Long:  util.WrapString("Loads the given database directories (or all directories below the root) and prints one line per loaded database. Fails on the first unreadable or malformed fragment."),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := util.OpenLoader(args...)
			if err != nil {
				return err
			}
			defer l.Close()

			registry := l.Registry()
			for _, name := range registry.Names() {
				entry, _ := registry.Get(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s keys=%d latest=%s\n", name, len(entry.Tree), entry.Filename)
			}
			Logger.Infof("Loaded %d database(s)", registry.Len())
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [db] [path]",
		Short: "Prints the mapping at a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(args[0], func(database *slashdb.Db) error {
				node := database.Get(args[1])
				if node == nil {
					return fmt.Errorf("no mapping at %s", args[1])
				}
				return util.Print(cmd.OutOrStdout(), node)
			})
		},
	}
	docCmd = &cobra.Command{
		Use:   "doc [db] [path]",
		Short: "Prints the value of a document",
		Long:  util.WrapString("Prints the value of the document at path. The path must consist of a collection path and a document key, e.g. users.alice or users/alice/posts/p1."),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(args[0], func(database *slashdb.Db) error {
				value, found, valid := database.Lookup(args[1])
				if !valid {
					return fmt.Errorf("%s is not a valid document path", args[1])
				}
				if !found {
					return fmt.Errorf("document %s not found", args[1])
				}
				return util.Print(cmd.OutOrStdout(), value)
			})
		},
	}
	queryCmd = &cobra.Command{
		Use:   "query [db] [collection] [key] [op] [value] [and|or key op value]...",
		Short: "Queries the documents of a collection",
		Long: util.WrapString(fmt.Sprintf("Queries the documents of a collection with field predicates. Supported operators: %s. Values are parsed as JSON, anything else is taken as string. Example: slashdb query app users age '>' 30 and roles in '[\"admin\"]'",
			strings.Join(operatorNames(), " "))),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 5 || (len(args)-5)%4 != 0 {
				return fmt.Errorf("expected [db] [collection] [key] [op] [value] followed by groups of [and|or] [key] [op] [value]")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			clauses, err := parseClauses(args[2:])
			if err != nil {
				return err
			}
			return withDatabase(args[0], func(database *slashdb.Db) error {
				query := database.Collection(args[1]).Chain(clauses...)
				keys, err := query.Keys()
				if err != nil {
					return err
				}
				docs, err := query.Get()
				if err != nil {
					return err
				}

				result := make(map[string]any, len(keys))
				for i, key := range keys {
					result[key] = docs[i]
				}
				return util.Print(cmd.OutOrStdout(), result)
			})
		},
	}
	appendCmd = &cobra.Command{
		Use:   "append [db] [path] [value]",
		Short: "Appends a row to the latest fragment of a database",
		Long:  util.WrapString("Appends a '<path>: <value>' row to the most recent fragment file of the database. Unknown databases get a new fragment file. The value is parsed as JSON, anything else is stored as string."),
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			l := loader.New(util.GetLoaderConfig())
			if _, err := l.Load(); err != nil {
				return err
			}
			defer l.Close()

			row := loader.FormatRow(args[1], util.ParseValue(args[2]))
			if _, err := l.ParseRow(row); err != nil {
				return err
			}

			database := l.Connect(args[0])
			if _, err := fmt.Fprintln(database.Output(), row); err != nil {
				return err
			}
			Logger.Infof("Appended %q to %s", row, database.Filename())
			return nil
		},
	}
)

// withDatabase loads all databases and runs fn on a connection to the named one
func withDatabase(name string, fn func(database *slashdb.Db) error) error {
	l, err := util.OpenLoader()
	if err != nil {
		return err
	}
	defer l.Close()

	if _, ok := l.Registry().Get(name); !ok {
		return fmt.Errorf("database %q not found (loaded: %s)", name, strings.Join(l.Registry().Names(), ", "))
	}
	return fn(l.Connect(name))
}

// parseClauses parses "key op value [and|or key op value]..."
func parseClauses(args []string) ([]slashdb.Clause, error) {
	var clauses []slashdb.Clause
	for i := 0; i < len(args); i += 4 {
		or := false
		if i > 0 {
			switch strings.ToLower(args[i-1]) {
			case "and":
			case "or":
				or = true
			default:
				return nil, fmt.Errorf("invalid join %q (expected and or or)", args[i-1])
			}
		}

		op, ok := slashdb.ParseOperator(args[i+1])
		if !ok {
			return nil, fmt.Errorf("unsupported operator %q (expected one of %s)", args[i+1], strings.Join(operatorNames(), " "))
		}
		clauses = append(clauses, slashdb.Clause{Key: args[i], Op: op, Value: util.ParseValue(args[i+2]), Or: or})
	}
	return clauses, nil
}

func operatorNames() []string {
	names := make([]string, len(slashdb.Operators))
	for i, op := range slashdb.Operators {
		names[i] = string(op)
	}
	return names
}
