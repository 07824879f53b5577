package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/minio/highwayhash"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/viant/smcache"
)

// digestKey is fixed rather than random: a stable key makes the digest of
// a given artifact reproducible across runs and hosts.
var digestKey = []byte("0123456789ABCDEF0123456789ABCDEF")

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a SmCache artifact from --source and --sourcemap.",
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("source", "", "URL of the minified JavaScript source")
	buildCmd.Flags().String("sourcemap", "", "URL of the source map for --source")
	buildCmd.Flags().String("out", "", "URL to write the serialized SmCache artifact to")
	buildCmd.Flags().Bool("verbose", false, "log scope collection and resolution detail")
	_ = buildCmd.MarkFlagRequired("source")
	_ = buildCmd.MarkFlagRequired("sourcemap")
	_ = buildCmd.MarkFlagRequired("out")
}

func runBuild(cmd *cobra.Command, args []string) error {
	sourceURL, _ := cmd.Flags().GetString("source")
	sourcemapURL, _ := cmd.Flags().GetString("sourcemap")
	outURL, _ := cmd.Flags().GetString("out")
	verbose, _ := cmd.Flags().GetBool("verbose")

	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	ctx := context.Background()
	fs := afs.New()

	minified, err := fs.DownloadWithURL(ctx, sourceURL)
	if err != nil {
		return fmt.Errorf("reading source %s: %w", sourceURL, err)
	}

	sourcemap, err := fs.DownloadWithURL(ctx, sourcemapURL)
	if err != nil {
		return fmt.Errorf("reading source map %s: %w", sourcemapURL, err)
	}

	w, err := smcache.New(minified, sourcemap, log)
	if err != nil {
		return fmt.Errorf("building artifact: %w", err)
	}

	var buf bytes.Buffer
	if err := w.Serialize(&buf); err != nil {
		return fmt.Errorf("serializing artifact: %w", err)
	}
	artifact := buf.Bytes()

	if err := fs.Upload(ctx, outURL, os.FileMode(0644), bytes.NewReader(artifact)); err != nil {
		return fmt.Errorf("writing artifact %s: %w", outURL, err)
	}

	digest, err := artifactDigest(artifact)
	if err != nil {
		return fmt.Errorf("computing artifact digest: %w", err)
	}

	log.Infof("wrote %s (%d bytes, digest %016x)", outURL, len(artifact), digest)
	fmt.Printf("%016x  %s\n", digest, outURL)
	return nil
}

func artifactDigest(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(digestKey)
	if err != nil {
		return 0, err
	}
	if _, err := hash.Write(data); err != nil {
		return 0, err
	}
	return hash.Sum64(), nil
}
