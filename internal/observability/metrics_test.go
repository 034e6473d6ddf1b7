package observability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/pgpextract/internal/protocol/packet"
	"github.com/danmuck/pgpextract/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	p := packet.Packet{Header: packet.Header{Format: packet.FormatNew, Tag: packet.TagSEIP}, Body: make([]byte, 40)}
	before := testutil.ToFloat64(packetsWalked.WithLabelValues("18", "new"))
	RecordPacket(p)
	RecordPacket(p)
	if got := testutil.ToFloat64(packetsWalked.WithLabelValues("18", "new")); got != before+2 {
		t.Fatalf("unexpected packet count: %v", got)
	}

	RecordArtifact("file", "seip", true)
	RecordWalk(3*time.Millisecond, nil)
	if got := testutil.ToFloat64(artifactsWritten.WithLabelValues("file", "seip", "true")); got < 1 {
		t.Fatalf("artifact not recorded")
	}
}

func TestOutcome(t *testing.T) {
	wrap := func(err error) error {
		return &packet.DecodeError{Offset: 3, Err: err}
	}
	cases := map[string]error{
		"ok":              nil,
		"partial_length":  wrap(packet.ErrPartialLength),
		"reserved_length": wrap(packet.ErrReservedLength),
		"truncated":       wrap(fmt.Errorf("%w: body", packet.ErrTruncated)),
		"malformed":       wrap(packet.ErrMalformed),
		"sink_error":      errors.New("disk full"),
	}
	for want, err := range cases {
		if got := Outcome(err); got != want {
			t.Fatalf("Outcome(%v) = %q want %q", err, got, want)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	RecordWalk(time.Millisecond, nil)
	path := filepath.Join(t.TempDir(), "pgpextract.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "pgpextract_walk_runs_total") {
		t.Fatalf("textfile missing walk counter:\n%s", data)
	}
}
