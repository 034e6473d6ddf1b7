package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/danmuck/pgpextract/internal/logging"
	"github.com/danmuck/pgpextract/internal/observability"
	"github.com/danmuck/pgpextract/internal/protocol/armor"
	"github.com/danmuck/pgpextract/internal/protocol/packet"
	"github.com/danmuck/pgpextract/internal/sink"
	"github.com/danmuck/pgpextract/internal/store"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

type extractOptions struct {
	outputDir string
	storeDir  string
	metrics   string
	armor     string
	cipher    string
	noReport  bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "pgpextract",
		Short:         "Walk OpenPGP packets and extract session key and encrypted data artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")

	cmd.AddCommand(
		newExtractCommand(opts),
		newPacketsCommand(opts),
		newArtifactsCommand(opts),
	)
	return cmd
}

// resolveConfig loads the config file, if any, and applies the log level.
func (o *rootOptions) resolveConfig() (Config, error) {
	cfg := DefaultConfig()
	if o.configPath != "" {
		loaded, err := loadConfig(o.configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if cfg.LogLevel != "" && !logging.SetLevel(cfg.LogLevel) {
		return Config{}, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	return cfg, nil
}

func newExtractCommand(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Write PKESK material and the SEIP body of FILE to artifact files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.resolveConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return runExtract(cmd.OutOrStdout(), cfg, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.outputDir, "out", "o", "", "directory for artifact files")
	flags.StringVar(&opts.storeDir, "store", "", "badger directory that keeps the latest artifact of each kind")
	flags.StringVar(&opts.metrics, "metrics", "", "write prometheus metrics to this textfile")
	flags.StringVar(&opts.armor, "armor", "", "armor handling: auto, always, never")
	flags.StringVar(&opts.cipher, "cipher", "", "cipher named in the suggested openssl command")
	flags.BoolVar(&opts.noReport, "no-report", false, "do not print the SEIP structure report")
	return cmd
}

func (o *extractOptions) apply(cmd *cobra.Command, cfg *Config) error {
	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("store") {
		cfg.StoreDir = o.storeDir
	}
	if flags.Changed("metrics") {
		cfg.MetricsTextfile = o.metrics
	}
	if flags.Changed("armor") {
		mode, err := armor.ParseMode(o.armor)
		if err != nil {
			return err
		}
		cfg.Armor = mode
	}
	if flags.Changed("cipher") && o.cipher != "" {
		cfg.Cipher = o.cipher
	}
	if o.noReport {
		cfg.Report = false
	}
	return nil
}

func readPackets(path string, mode armor.Mode) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, blockType, err := armor.Unwrap(raw, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if blockType != "" {
		logger := logging.Component("input")
		logger.Debug().Str("path", path).Str("block", blockType).Msg("dearmored input")
	}
	return data, nil
}

func runExtract(out io.Writer, cfg Config, path string) (err error) {
	logger := logging.Component("extract")
	defer func() {
		if cfg.MetricsTextfile == "" {
			return
		}
		if werr := observability.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn().Err(werr).Str("path", cfg.MetricsTextfile).Msg("metrics textfile not written")
		}
	}()

	data, err := readPackets(path, cfg.Armor)
	if err != nil {
		return err
	}

	files := sink.NewFileSink(cfg.OutputDir, cfg.PKESKFile, cfg.SEIPFile)
	sinks := sink.Tee{sink.Metrics{}}
	if cfg.Report {
		sinks = append(sinks, &sink.Report{Out: out, Cipher: cfg.Cipher, SEIPFile: files.SEIPPath()})
	}
	sinks = append(sinks, files)
	if cfg.StoreDir != "" {
		st, openErr := store.Open(cfg.StoreDir)
		if openErr != nil {
			return openErr
		}
		defer func() {
			if cerr := st.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		sinks = append(sinks, &sink.StoreSink{Store: st, Source: path})
	}

	start := time.Now()
	err = packet.Extract(data, sinks)
	observability.RecordWalk(time.Since(start), err)
	if err != nil {
		event := logger.Error().Err(err).Str("path", path)
		if off, ok := packet.Offset(err); ok {
			event = event.Int("offset", off)
		}
		event.Msg("extraction failed")
		return fmt.Errorf("extract %s: %w", path, err)
	}
	logger.Info().Str("path", path).Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("extraction complete")
	return nil
}

func newPacketsCommand(root *rootOptions) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "packets FILE",
		Short: "List the packets in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.resolveConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("armor") {
				if cfg.Armor, err = armor.ParseMode(mode); err != nil {
					return err
				}
			}
			data, err := readPackets(args[0], cfg.Armor)
			if err != nil {
				return err
			}
			return printPackets(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().StringVar(&mode, "armor", "", "armor handling: auto, always, never")
	return cmd
}

// printPackets lists every decodable packet, then reports a walk error if
// the buffer did not end cleanly.
func printPackets(out io.Writer, data []byte) error {
	packets, walkErr := packet.List(data)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OFFSET\tTAG\tTYPE\tFORMAT\tHEADER\tBODY")
	for _, p := range packets {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%d\n", p.Offset, p.Tag, p.Tag, p.Format, p.HeaderLen, p.BodyLen)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return walkErr
}

func newArtifactsCommand(root *rootOptions) *cobra.Command {
	var (
		storeDir  string
		exportDir string
	)
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "List, and optionally export, the artifacts kept in a store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.resolveConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.StoreDir = storeDir
			}
			if cfg.StoreDir == "" {
				return errors.New("no store configured (use --store or store_dir)")
			}
			return runArtifacts(cmd.OutOrStdout(), cfg, exportDir)
		},
	}
	cmd.Flags().StringVar(&storeDir, "store", "", "badger store directory")
	cmd.Flags().StringVar(&exportDir, "export", "", "write the stored artifacts to this directory")
	return cmd
}

func runArtifacts(out io.Writer, cfg Config, exportDir string) (err error) {
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	recs, err := st.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSOURCE\tOFFSET\tBYTES\tSTORED")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", rec.Kind, rec.Source, rec.Offset, len(rec.Data), rec.StoredAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if exportDir == "" {
		return nil
	}
	files := sink.NewFileSink(exportDir, cfg.PKESKFile, cfg.SEIPFile)
	for _, rec := range recs {
		switch rec.Kind {
		case store.KindPKESK:
			err = files.WritePKESK(rec.Data)
		case store.KindSEIP:
			err = files.WriteSEIP(rec.Data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
