// Command jsonfmt is a small CLI front end over package rjson: prettifying
// relaxed-JSON files in place and printing the literal text of the value at
// a dotted key path (a string is printed without its quotes, escapes as
// stored).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/relaxed-json/rjson"
)

func init() {
	// Loads a local .env into the process environment, if present. Nothing
	// in this command reads a setting from the environment afterwards.
	godotenv.Load()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "prettify-file":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(2)
		}
		if err := rjson.PrettifyFiles(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "get":
		if len(os.Args) != 4 {
			printUsage()
			os.Exit(2)
		}
		runGet(os.Args[2], os.Args[3])
	default:
		printUsage()
		os.Exit(2)
	}
}

func runGet(path, jsonPath string) {
	buf, err := rjson.ReadFileAuto(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	var tok rjson.Token
	n := rjson.Scanf(buf, scanPattern(jsonPath), rjson.TokenDest(&tok))
	if n == 0 {
		fmt.Fprintf(os.Stderr, "jsonfmt: %s: no value at %q\n", path, jsonPath)
		os.Exit(1)
	}
	os.Stdout.Write(tok.Text(buf))
	fmt.Println()
}

// scanPattern turns a dotted key path ("a.b.c") into the nested-object
// Scanf pattern that reaches it ("{a: {b: {c: %T}}}").
func scanPattern(dotted string) string {
	keys := strings.Split(dotted, ".")
	pattern := "%T"
	for i := len(keys) - 1; i >= 0; i-- {
		pattern = fmt.Sprintf("{%s: %s}", keys[i], pattern)
	}
	return pattern
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  jsonfmt prettify-file <path> [path...]")
	fmt.Fprintln(os.Stderr, "  jsonfmt get <path> <dotted.key>")
}
