package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/dzikibot/tankdrive/onboard"
	"github.com/dzikibot/tankdrive/onboard/telemetry"
)

func postJSON(url string, v interface{}) (*http.Response, error) {
	body, _ := json.Marshal(v)
	return http.Post(url, "application/json", bytes.NewReader(body))
}

func TestAPI(t *testing.T) {
	Convey("the control API", t, func() {
		mck := clock.NewMock()
		bot := onboard.NewSimulatedTankBot(onboard.DefaultConfig(), mck)

		db, err := openDb(filepath.Join(t.TempDir(), "tankdrive.db"))
		So(err, ShouldBeNil)

		srv := httptest.NewServer(newRouter(bot, db, telemetry.NewBroadcaster()))

		Reset(func() {
			srv.Close()
			db.Close()
		})

		tick := func() {
			mck.Add(time.Duration(bot.Config().Motion.TickMS) * time.Millisecond)
			bot.MotionTick()
		}

		Convey("serves the current frame and tuning", func() {
			tick()

			resp, err := http.Get(srv.URL + "/state")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var f telemetry.Frame
			So(json.NewDecoder(resp.Body).Decode(&f), ShouldBeNil)
			So(f.UptimeMS, ShouldEqual, bot.Config().Motion.TickMS)

			resp, err = http.Get(srv.URL + "/params")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("stages targets into the drive loop", func() {
			resp, err := postJSON(srv.URL+"/target", targetRequest{Left: 40, Right: -40})
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			tick()
			f := bot.Frame()
			So(f.Left.Target, ShouldEqual, 40)
			So(f.Right.Target, ShouldEqual, -40)
		})

		Convey("dispatches maneuvers and rejects unknown ones", func() {
			resp, err := postJSON(srv.URL+"/maneuver", maneuverRequest{Action: "forward", Pct: 60})
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			tick()
			So(bot.Frame().Left.Target, ShouldEqual, 60)

			resp, err = postJSON(srv.URL+"/maneuver", maneuverRequest{Action: "wheelie", Pct: 60})
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("starts and stops the scripted test", func() {
			resp, err := postJSON(srv.URL+"/test/start", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			tick()
			So(bot.Frame().TestRunning, ShouldBeTrue)

			resp, err = postJSON(srv.URL+"/test/stop", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()

			tick()
			So(bot.Frame().TestRunning, ShouldBeFalse)
		})

		Convey("round-trips tuning profiles through the db", func() {
			resp, err := postJSON(srv.URL+"/profiles", profileRequest{Name: "turf"})
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			resp, err = http.Get(srv.URL + "/profiles")
			So(err, ShouldBeNil)
			var profiles []Profile
			So(json.NewDecoder(resp.Body).Decode(&profiles), ShouldBeNil)
			resp.Body.Close()
			So(len(profiles), ShouldEqual, 1)
			So(profiles[0].Name, ShouldEqual, "turf")
			So(profiles[0].Params.RampStepPct, ShouldEqual, bot.Params().RampStepPct)

			resp, err = postJSON(srv.URL+"/profiles/turf/apply", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/profiles/turf", nil)
			resp, err = http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			resp, err = postJSON(srv.URL+"/profiles/turf/apply", nil)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)

			Convey("an empty profile name is rejected", func() {
				resp, err := postJSON(srv.URL+"/profiles", profileRequest{})
				So(err, ShouldBeNil)
				resp.Body.Close()
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
