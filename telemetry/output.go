package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/gravview/config"
)

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Frame     uint64  `csv:"frame"`
	Particles int     `csv:"particles"`
	DT        float64 `csv:"dt"`
	Fills     int     `csv:"fills"`
	Dropped   bool    `csv:"dropped"`
	FPS       float64 `csv:"fps"`
	MeanFPS   float64 `csv:"mean_fps"`
	MinFPS    float64 `csv:"min_fps"`
	MaxFPS    float64 `csv:"max_fps"`
}

// OutputManager handles run output with CSV logging.
type OutputManager struct {
	dir        string
	framesFile *os.File

	// Track if headers have been written
	framesHeaderWritten bool

	records []FrameRecord
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, records: make([]FrameRecord, 0, 1)}

	framesPath := filepath.Join(dir, "frames.csv")
	f, err := os.Create(framesPath)
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.framesFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteFrame writes a frame record to frames.csv.
func (om *OutputManager) WriteFrame(rec FrameRecord) error {
	if om == nil {
		return nil
	}

	om.records = append(om.records[:0], rec)

	if !om.framesHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(om.records, om.framesFile); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
		om.framesHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(om.records, om.framesFile); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.framesFile != nil {
		if err := om.framesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
