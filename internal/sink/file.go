package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/pgpextract/internal/logging"
	"github.com/danmuck/pgpextract/internal/observability"
	"github.com/moby/sys/atomicwriter"
	"github.com/rs/zerolog"
)

const (
	DefaultPKESKFile = "pkesk.bin"
	DefaultSEIPFile  = "encrypted.bin"

	artifactPerm os.FileMode = 0o600
)

// FileSink keeps one file per artifact kind. Each write replaces the file
// through a rename, so a reader never sees a partial artifact.
type FileSink struct {
	Dir       string
	PKESKName string
	SEIPName  string

	logger zerolog.Logger
}

func NewFileSink(dir, pkeskName, seipName string) *FileSink {
	if pkeskName == "" {
		pkeskName = DefaultPKESKFile
	}
	if seipName == "" {
		seipName = DefaultSEIPFile
	}
	return &FileSink{
		Dir:       dir,
		PKESKName: pkeskName,
		SEIPName:  seipName,
		logger:    logging.Component("sink.file"),
	}
}

func (s *FileSink) PKESKPath() string { return filepath.Join(s.Dir, s.PKESKName) }
func (s *FileSink) SEIPPath() string  { return filepath.Join(s.Dir, s.SEIPName) }

func (s *FileSink) WritePKESK(material []byte) error {
	return s.write(KindPKESK, s.PKESKPath(), material)
}

func (s *FileSink) WriteSEIP(body []byte) error {
	return s.write(KindSEIP, s.SEIPPath(), body)
}

func (s *FileSink) Info(msg string) {
	s.logger.Debug().Msg(msg)
}

func (s *FileSink) write(kind, path string, data []byte) error {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			observability.RecordArtifact("file", kind, false)
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := atomicwriter.WriteFile(path, data, artifactPerm); err != nil {
		observability.RecordArtifact("file", kind, false)
		return fmt.Errorf("write %s artifact: %w", kind, err)
	}
	observability.RecordArtifact("file", kind, true)
	s.logger.Info().Str("kind", kind).Str("path", path).Int("bytes", len(data)).Msg("artifact written")
	return nil
}
