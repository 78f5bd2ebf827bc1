package onboard

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"
)

const testYaml = `
version: 1
bus: vcan0
esc_addr: 0x130
motion:
  ramp_step_pct: 6
  smooth_alpha: 0.5
scheduler:
  sens_ms: 50
`

func TestConfigParsing(t *testing.T) {
	Convey("unmarshaling over the defaults", t, func() {
		config := DefaultConfig()
		err := yaml.Unmarshal([]byte(testYaml), &config)
		So(err, ShouldBeNil)

		Convey("overrides what the file names", func() {
			So(config.Bus, ShouldEqual, "vcan0")
			So(config.ESCAddr, ShouldEqual, 0x130)
			So(config.Motion.RampStepPct, ShouldEqual, 6)
			So(config.Motion.SmoothAlpha, ShouldAlmostEqual, 0.5)
			So(config.Scheduler.SensorMS, ShouldEqual, 50)
		})

		Convey("keeps the defaults for everything else", func() {
			So(config.Motion.TickMS, ShouldEqual, 20)
			So(config.Motion.NeutralDwellMS, ShouldEqual, 600)
			So(config.Motion.WindowStartPct, ShouldEqual, 30)
			So(config.Scheduler.PanelMS, ShouldEqual, 200)
			So(config.ArmMS, ShouldEqual, 3000)
		})
	})
}

func TestLoadConfig(t *testing.T) {
	Convey("loading a config file", t, func() {
		dir, err := ioutil.TempDir("", "tankcfg")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		Convey("a valid file parses and is normalized", func() {
			path := filepath.Join(dir, "tank_config.yaml")
			body := `
version: 1
motion:
  esc_start_pct: 90
  esc_max_pct: 40
  smooth_alpha: 7
`
			So(ioutil.WriteFile(path, []byte(body), 0644), ShouldBeNil)

			config, err := LoadConfig(path)
			So(err, ShouldBeNil)
			So(config.Motion.WindowStartPct, ShouldEqual, 40)
			So(config.Motion.WindowEndPct, ShouldEqual, 90)
			So(config.Motion.SmoothAlpha, ShouldEqual, 1)
		})

		Convey("a missing file reports an error", func() {
			_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
			So(err, ShouldNotBeNil)
		})

		Convey("a wrong version is rejected", func() {
			path := filepath.Join(dir, "bad.yaml")
			So(ioutil.WriteFile(path, []byte("version: 9"), 0644), ShouldBeNil)
			_, err := LoadConfig(path)
			So(err, ShouldNotBeNil)
		})
	})
}
