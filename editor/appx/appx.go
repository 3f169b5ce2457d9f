// Package appx implements the orchestrator (component G): it drives the
// full archive emission, choosing entry order, synthesizing the
// generated manifests, maintaining the footprint digest set, and
// invoking the signer. The state-machine shape (linear states,
// Aborted-on-any-failure with partial-output cleanup) is adapted from
// the teacher's editor/zip.writer data-descriptor model generalized to
// the spec's buffer-then-patch policy; logging follows the
// sirupsen/logrus idiom used throughout the rest of the pack.
package appx

import (
	"crypto/sha256"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"appxpack/editor/apperr"
	"appxpack/editor/blockmap"
	"appxpack/editor/contenttypes"
	"appxpack/editor/names"
	"appxpack/editor/sign"
	"appxpack/editor/sink"
	"appxpack/editor/zipw"
)

// bundleManifestName is the archive-internal path required when
// Options.Bundle is set (spec.md §4.G rule 1).
const bundleManifestName = "AppxMetadata/AppxBundleManifest.xml"

// codeIntegrityName is the optional entry whose digest feeds axci.
const codeIntegrityName = "AppxMetadata/CodeIntegrity.cat"

const contentTypesName = "[Content_Types].xml"
const blockMapName = "AppxBlockMap.xml"
const signatureName = "AppxSignature.p7x"

const regularFilePerm = 0o644

// state names the orchestrator's position in its linear state machine
// (spec.md "State machine (orchestrator)").
type state int

const (
	stateInit state = iota
	stateWritingUserEntries
	stateGeneratingManifests
	stateSigning
	stateWritingCentralDirectory
	stateFinalized
	stateAborted
)

func (s state) String() string {
	switch s {
	case stateInit:
		return "Init"
	case stateWritingUserEntries:
		return "WritingUserEntries"
	case stateGeneratingManifests:
		return "GeneratingManifests"
	case stateSigning:
		return "Signing"
	case stateWritingCentralDirectory:
		return "WritingCentralDirectory"
	case stateFinalized:
		return "Finalized"
	default:
		return "Aborted"
	}
}

// InputEntry is one caller-supplied archive member (spec.md §3 "Entry
// descriptor", the source_path/archive_name fields; the rest of the
// descriptor is computed by the writer).
type InputEntry struct {
	ArchiveName string
	SourcePath  string
}

// Options configures one archive-emission run.
type Options struct {
	OutputPath string
	Entries    []InputEntry
	Level      int // 0 = store, 1..9 = deflate level
	Bundle     bool

	// PKCS12Path, if non-empty, enables signing with the PKCS#12 bundle
	// at that path. Passphrase is read from the environment by the
	// caller (internal/appxenv) and passed through here.
	PKCS12Path string
	Passphrase string
}

func methodFor(level int) zipw.Method {
	if level == 0 {
		return zipw.Store
	}
	return zipw.Deflate
}

// WriteArchive runs the full pipeline described by opts and writes the
// resulting package to opts.OutputPath. On any failure the partial
// output file is removed and the error is returned; no error is
// recovered internally (spec.md §7 propagation policy).
func WriteArchive(opts Options) (err error) {
	log := logrus.WithField("component", "appx")
	st := stateInit

	sanitized := make([]InputEntry, len(opts.Entries))
	for i, e := range opts.Entries {
		sanitized[i] = InputEntry{ArchiveName: names.Sanitize(e.ArchiveName), SourcePath: e.SourcePath}
	}
	sort.Slice(sanitized, func(i, j int) bool { return sanitized[i].ArchiveName < sanitized[j].ArchiveName })

	if opts.Bundle {
		found := false
		for _, e := range sanitized {
			if e.ArchiveName == bundleManifestName {
				found = true
				break
			}
		}
		if !found {
			return apperr.MissingManifestErr()
		}
	}

	var identity *sign.SigningIdentity
	if opts.PKCS12Path != "" {
		identity, err = sign.LoadFromPKCS12(opts.PKCS12Path, opts.Passphrase)
		if err != nil {
			return err
		}
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return apperr.IO(opts.OutputPath, err)
	}
	committed := false
	defer func() {
		out.Close()
		if !committed {
			st = stateAborted
			log.WithField("state", st.String()).WithError(err).Warn("aborting, removing partial output")
			os.Remove(opts.OutputPath)
		}
	}()

	zw := zipw.NewWriter(out)
	axpcHash := sink.NewHashingSink(nil)
	blockBuilder := blockmap.NewBuilder()
	ctBuilder := contenttypes.NewBuilder()
	axciDigest := sink.ZeroDigest

	st = stateWritingUserEntries
	log.WithField("state", st.String()).Debug("writing user entries")
	for _, e := range sanitized {
		log.WithField("entry", e.ArchiveName).Debug("writing entry")
		desc, blocks, axci, hadAxci, err := writeUserEntry(zw, axpcHash, opts.Level, e)
		if err != nil {
			return err
		}
		blockBuilder.Add(blockmap.File{
			ArchiveName: desc.Name,
			Size:        desc.UncompressedSize,
			Deflated:    desc.Method == zipw.Deflate,
			Blocks:      blocks,
		})
		ctBuilder.Add(desc.Name)
		if hadAxci {
			axciDigest = axci
		}
	}

	st = stateGeneratingManifests
	log.WithField("state", st.String()).Debug("generating manifests")

	// AppxBlockMap.xml is always generated and AppxSignature.p7x is
	// generated whenever signing is requested; both need their required
	// content-type overrides even though they are never passed to
	// ctBuilder.Add via the user-entry loop above.
	ctBuilder.Add(blockMapName)
	if opts.PKCS12Path != "" {
		ctBuilder.Add(signatureName)
	}

	ctBytes := ctBuilder.Render()
	axct := sha256.Sum256(ctBytes)
	if _, err := writeGeneratedEntry(zw, axpcHash, contentTypesName, methodFor(opts.Level), opts.Level, ctBytes); err != nil {
		return err
	}

	bmBytes := blockBuilder.Render()
	axbm := sha256.Sum256(bmBytes)
	if _, err := writeGeneratedEntry(zw, axpcHash, blockMapName, zipw.Store, 0, bmBytes); err != nil {
		return err
	}

	axcdBytes := zw.BuildCentralDirectory()
	axcd := sha256.Sum256(axcdBytes)

	cdBytes := axcdBytes
	if opts.PKCS12Path != "" {
		st = stateSigning
		log.WithField("state", st.String()).Debug("signing")

		footprint := sign.Footprint{AXPC: axpcHash.Finalize(), AXCD: axcd, AXCT: axct, AXBM: axbm, AXCI: axciDigest}
		sigBlob, err := sign.Sign(identity, footprint)
		if err != nil {
			return err
		}
		// The signature entry is excluded from axpc/axcd by construction:
		// it is written with no entryTee and its central record is fetched
		// and appended only after axcd was already computed above.
		if _, err := writeGeneratedEntry(zw, nil, signatureName, zipw.Store, 0, sigBlob); err != nil {
			return err
		}
		sigRecord, err := zw.CentralRecordBytes(zw.EntryCount() - 1)
		if err != nil {
			return err
		}
		cdBytes = append(append([]byte{}, axcdBytes...), sigRecord...)
	}

	st = stateWritingCentralDirectory
	log.WithField("state", st.String()).Debug("writing central directory")
	if _, _, err := zw.WriteCentralDirectory(cdBytes); err != nil {
		return apperr.IO(opts.OutputPath, err)
	}

	committed = true
	st = stateFinalized
	log.WithField("state", st.String()).Debug("archive complete")
	return nil
}

// writeUserEntry streams one caller-supplied file through the ZIP
// writer, returning its descriptor, block list, and (if this is the
// CodeIntegrity.cat entry) its whole-content digest for axci.
func writeUserEntry(zw *zipw.Writer, axpcHash io.Writer, level int, e InputEntry) (zipw.Descriptor, []blockmap.Block, [32]byte, bool, error) {
	src, err := os.Open(e.SourcePath)
	if err != nil {
		return zipw.Descriptor{}, nil, sink.ZeroDigest, false, apperr.IO(e.SourcePath, err)
	}
	defer src.Close()

	ew, err := zw.CreateEntry(e.ArchiveName, methodFor(level), level, zipw.RegularFileExternalAttrs(regularFilePerm), axpcHash)
	if err != nil {
		return zipw.Descriptor{}, nil, sink.ZeroDigest, false, err
	}

	isCodeIntegrity := e.ArchiveName == codeIntegrityName
	var axciHash *sink.HashingSink
	var dst io.Writer = ew
	if isCodeIntegrity {
		axciHash = sink.NewHashingSink(nil)
		dst = io.MultiWriter(ew, axciHash)
	}

	if _, err := io.Copy(dst, src); err != nil {
		return zipw.Descriptor{}, nil, sink.ZeroDigest, false, apperr.IO(e.SourcePath, err)
	}

	desc, err := ew.Close()
	if err != nil {
		return zipw.Descriptor{}, nil, sink.ZeroDigest, false, apperr.Compression(err)
	}

	if isCodeIntegrity {
		return desc, desc.Blocks, axciHash.Finalize(), true, nil
	}
	return desc, desc.Blocks, sink.ZeroDigest, false, nil
}

// writeGeneratedEntry writes an in-memory generated document (manifest
// or signature blob) as one ZIP entry. axpcHash is nil for the
// signature entry, which must not contribute to axpc.
func writeGeneratedEntry(zw *zipw.Writer, axpcHash io.Writer, name string, method zipw.Method, level int, content []byte) (zipw.Descriptor, error) {
	var tee io.Writer
	if axpcHash != nil {
		tee = axpcHash
	}
	ew, err := zw.CreateEntry(name, method, level, zipw.RegularFileExternalAttrs(regularFilePerm), tee)
	if err != nil {
		return zipw.Descriptor{}, err
	}
	if _, err := ew.Write(content); err != nil {
		return zipw.Descriptor{}, apperr.Compression(err)
	}
	desc, err := ew.Close()
	if err != nil {
		return zipw.Descriptor{}, apperr.Compression(err)
	}
	return desc, nil
}
