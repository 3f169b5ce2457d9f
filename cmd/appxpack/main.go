// Command appxpack builds a Microsoft APPX or APPXBUNDLE package from a
// set of local files, optionally signing it with a PKCS#12 key. Flag
// handling follows the manual, flag.FlagSet-plus-positional-args style
// used by distr1-distri's cmd/distri/pack.go rather than a subcommand
// framework, since this program has exactly one job.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"appxpack/editor/apperr"
	"appxpack/editor/appx"
	"appxpack/internal/appxenv"
	"appxpack/internal/mapfile"
)

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	logrus.SetLevel(logrus.DebugLevel)
}

const usage = `Usage: %s -o APPX [OPTION]... INPUT...
Creates an optionally-signed Microsoft APPX or APPXBUNDLE package.

Options:
  -c pfx-file     sign the APPX with the private key file
  -f map-file     specify inputs from a mapping file
  -f -            specify a mapping file through standard input
  -b              produce APPXBUNDLE instead of APPX
  -o output-file  write the package to output-file (required)
  -0 .. -9        ZIP compression level (0 = store, default; 9 = best)
  -h              show this usage text and exit

An INPUT is either a directory (included recursively), a file (placed
at the archive root), or an ARCHIVE_NAME=LOCAL_PATH pair.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("appxpack", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprintf(os.Stderr, usage, "appxpack") }

	output := fs.String("o", "", "output file (required)")
	certPath := fs.String("c", "", "PKCS#12 file to sign with")
	mapPath := fs.String("f", "", "mapping file (or - for stdin)")
	bundle := fs.Bool("b", false, "produce an APPXBUNDLE")
	levelFlags := make(map[int]*bool)
	for i := 0; i <= 9; i++ {
		levelFlags[i] = fs.Bool(fmt.Sprint(i), false, "ZIP compression level")
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *output == "" {
		fs.Usage()
		return fmt.Errorf("appxpack: -o is required")
	}

	level := 0
	for i := 9; i >= 0; i-- {
		if *levelFlags[i] {
			level = i
			break
		}
	}

	var entries []appx.InputEntry

	if *mapPath != "" {
		mapped, err := readMappingFile(*mapPath)
		if err != nil {
			return err
		}
		entries = append(entries, mapped...)
	}

	for _, arg := range fs.Args() {
		resolved, err := resolvePositional(arg)
		if err != nil {
			return err
		}
		entries = append(entries, resolved...)
	}

	opts := appx.Options{
		OutputPath: *output,
		Entries:    entries,
		Level:      level,
		Bundle:     *bundle,
		PKCS12Path: *certPath,
	}
	if *certPath != "" {
		opts.Passphrase = appxenv.SignPassphrase()
	}

	return appx.WriteArchive(opts)
}

func readMappingFile(path string) ([]appx.InputEntry, error) {
	if path == "-" {
		return mapfile.Parse(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.IO(path, err)
	}
	defer f.Close()
	return mapfile.Parse(f)
}

// resolvePositional expands one command-line INPUT into archive
// entries: a directory is walked recursively (archive names relative
// to the directory), a plain path is placed at the archive root, and
// an ARCHIVE_NAME=LOCAL_PATH pair maps explicitly.
func resolvePositional(arg string) ([]appx.InputEntry, error) {
	if name, local, ok := strings.Cut(arg, "="); ok {
		return []appx.InputEntry{{ArchiveName: name, SourcePath: local}}, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, apperr.IO(arg, err)
	}
	if !info.IsDir() {
		return []appx.InputEntry{{ArchiveName: filepath.Base(arg), SourcePath: arg}}, nil
	}

	var entries []appx.InputEntry
	err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return apperr.IO(path, err)
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(arg, path)
		if err != nil {
			return apperr.IO(path, err)
		}
		entries = append(entries, appx.InputEntry{
			ArchiveName: filepath.ToSlash(rel),
			SourcePath:  path,
		})
		return nil
	})
	return entries, err
}
