// Package onboard composes the robot: drive controller, ESC node, sensors,
// odometry and the periodic tasks that tie them together.
package onboard

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/dzikibot/tankdrive/onboard/drive"
)

type SensorConfig struct {
	MedianWin         int `yaml:"median_win"`
	MAWin             int `yaml:"ma_win"`
	DistOffsetLeftMM  int `yaml:"dist_offset_left_mm"`
	DistOffsetRightMM int `yaml:"dist_offset_right_mm"`
}

type SchedulerConfig struct {
	SensorMS    uint32 `yaml:"sens_ms"`
	PanelMS     uint32 `yaml:"panel_ms"`
	TelemetryMS uint32 `yaml:"telemetry_ms"`
}

type ChassisConfig struct {
	TrackWidthM float64 `yaml:"track_width_m"`
	MaxSpeedMS  float64 `yaml:"max_speed_ms"`
}

type TankConfig struct {
	Version int    `yaml:"version"`
	Bus     string `yaml:"bus"`

	ESCAddr        uint32 `yaml:"esc_addr"`
	RangeLeftAddr  uint32 `yaml:"range_left_addr"`
	RangeRightAddr uint32 `yaml:"range_right_addr"`
	ColorAddr      uint32 `yaml:"color_addr"`

	// ArmMS is the neutral hold before the first drive command, giving the
	// ESC firmware its arming window.
	ArmMS uint32 `yaml:"arm_ms"`

	Motion    drive.Params    `yaml:"motion"`
	Sensors   SensorConfig    `yaml:"sensors"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Chassis   ChassisConfig   `yaml:"chassis"`
}

// DefaultConfig is the stock chassis setup. LoadConfig unmarshals on top of
// it, so a partial yaml file only overrides what it names.
func DefaultConfig() TankConfig {
	return TankConfig{
		Version:        1,
		Bus:            "can0",
		ESCAddr:        0x120,
		RangeLeftAddr:  0x210,
		RangeRightAddr: 0x211,
		ColorAddr:      0x220,
		ArmMS:          3000,
		Motion:         drive.DefaultParams(),
		Sensors: SensorConfig{
			MedianWin: 3,
			MAWin:     4,
		},
		Scheduler: SchedulerConfig{
			SensorMS:    100,
			PanelMS:     200,
			TelemetryMS: 200,
		},
		Chassis: ChassisConfig{
			TrackWidthM: 0.16,
			MaxSpeedMS:  1.2,
		},
	}
}

// LoadConfig reads a yaml config file over the defaults.
func LoadConfig(path string) (config TankConfig, err error) {
	config = DefaultConfig()

	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("unable to read config file: %v", err)
	}
	if err = yaml.Unmarshal(raw, &config); err != nil {
		return config, fmt.Errorf("unable to unmarshal yaml: %v", err)
	}
	if config.Version != 1 {
		return config, fmt.Errorf("unable to work with version %d", config.Version)
	}

	config.Motion.Normalize()
	return config, nil
}
