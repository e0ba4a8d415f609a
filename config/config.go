// Package config holds the pipeline's tunable geometry, speed and
// policy constants, loadable from a YAML file that overlays onto a set
// of built-in defaults.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CacheBackend names a persistence implementation for the cache store.
// The build command selects it with its --cache-backend flag and always
// opens the recovery store as a JSON file.
type CacheBackend string

const (
	CacheBackendJSONFile CacheBackend = "jsonfile"
	CacheBackendSQLite   CacheBackend = "sqlite"
)

// EntranceVerificationPolicy controls when a cached good export may
// replace a failing city's export: strict requires the cached entry's
// source hash to equal the current one, lenient accepts any cached good
// export. Cached entrances themselves are not checked under either
// policy.
type EntranceVerificationPolicy string

const (
	EntranceVerificationLenient EntranceVerificationPolicy = "lenient"
	EntranceVerificationStrict  EntranceVerificationPolicy = "strict"
)

// Tunables holds every tunable the pipeline consults.
type Tunables struct {
	EntranceProximityM      float64 `yaml:"entrance_proximity_m"`
	StopToLineToleranceM    float64 `yaml:"stop_to_line_tolerance_m"`
	StopToLineLooseM        float64 `yaml:"stop_to_line_loose_m"`
	DisplacementToleranceM  float64 `yaml:"displacement_tolerance_m"`
	AllowedStationMismatch  float64 `yaml:"allowed_station_mismatch"`
	AllowedTransferMismatch float64 `yaml:"allowed_transfer_mismatch"`
	MinAngleOK              float64 `yaml:"min_angle_ok"`
	MinAngleHard            float64 `yaml:"min_angle_hard"`
	SpeedOnLineKMH          float64 `yaml:"speed_on_line_kmh"`
	SpeedToEntranceKMH      float64 `yaml:"speed_to_entrance_kmh"`
	SpeedOnTransferKMH      float64 `yaml:"speed_on_transfer_kmh"`
	EntrancePenaltyS        int     `yaml:"entrance_penalty_s"`
	TransferPenaltyS        int     `yaml:"transfer_penalty_s"`
	DefaultIntervalMin      float64 `yaml:"default_interval_min"`

	EntranceVerification EntranceVerificationPolicy `yaml:"entrance_verification"`
	CacheBackend         CacheBackend                `yaml:"cache_backend"`
}

// Default returns the tunables' built-in default values.
func Default() Tunables {
	return Tunables{
		EntranceProximityM:      300,
		StopToLineToleranceM:    50,
		StopToLineLooseM:        150,
		DisplacementToleranceM:  300,
		AllowedStationMismatch:  0.02,
		AllowedTransferMismatch: 0.07,
		MinAngleOK:              45,
		MinAngleHard:            20,
		SpeedOnLineKMH:          40,
		SpeedToEntranceKMH:      5,
		SpeedOnTransferKMH:      3.5,
		EntrancePenaltyS:        60,
		TransferPenaltyS:        30,
		DefaultIntervalMin:      2.5,
		EntranceVerification:    EntranceVerificationLenient,
		CacheBackend:            CacheBackendJSONFile,
	}
}

// Load reads tunables from a YAML file, overlaying onto the defaults so
// a partial file only needs to mention the fields it changes.
func Load(path string) (Tunables, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, errors.Wrapf(err, "parsing config %s", path)
	}
	return t, nil
}

// SpeedMetersPerSecond converts a km/h tunable to m/s.
func SpeedMetersPerSecond(kmh float64) float64 {
	return kmh * 1000.0 / 3600.0
}
