package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"

	"github.com/dzikibot/tankdrive/onboard"
	"github.com/dzikibot/tankdrive/onboard/sched"
	"github.com/dzikibot/tankdrive/onboard/telemetry"
)

type EnvConfig struct {
	DEBUG  bool   `env:"DEBUG" envDefault:"0"`
	SRCDIR string `env:"SRCDIR" envDefault:"."`
	DBFILE string `env:"DBFILE" envDefault:"./tmp/live.db"`
}

var ENV *EnvConfig

func init() {
	ENV = new(EnvConfig)
	env.Parse(ENV)
}

func main() {
	simulated := flag.Bool("sim", false, "Run the device in simulator mode")
	port := flag.String("port", "0.0.0.0:8080", "Specify the ip:port to listen on")
	configFlag := flag.String("config", "", "Path to the yaml config; defaults to SRCDIR/tank_config.yaml")
	flag.Parse()

	cfg := loadBootConfig(*configFlag)

	db, err := openDb(ENV.DBFILE)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var bot *onboard.TankBot
	if *simulated {
		log.Print("creating simulator")
		bot = onboard.NewSimulatedTankBot(cfg, nil)
	} else {
		bot, err = onboard.NewTankBot(ctx, cfg, nil)
		if err != nil {
			panic(err)
		}
	}

	// A profile saved under "default" overrides the file tuning.
	if params, err := loadProfile(db, "default"); err == nil {
		log.Print("applying stored default profile")
		bot.Retune(params)
	}

	bcast := telemetry.NewBroadcaster()

	// Task order is priority order: drive first, then sensing, then the
	// human-facing refreshes.
	tasks := []*sched.Task{
		{Name: "motion", Period: cfg.Motion.TickMS, Run: bot.MotionTick},
		{Name: "sensors", Period: cfg.Scheduler.SensorMS, Run: bot.SensorTick},
	}
	if ENV.DEBUG {
		panel := telemetry.NewPanel(os.Stdout)
		tasks = append(tasks, &sched.Task{
			Name:   "panel",
			Period: cfg.Scheduler.PanelMS,
			Run:    func() { panel.Render(bot.Frame()) },
		})
	}
	tasks = append(tasks, &sched.Task{
		Name:   "telemetry",
		Period: cfg.Scheduler.TelemetryMS,
		Run:    func() { bcast.Publish(bot.Frame()) },
	})

	loop := sched.NewLoop(nil, tasks...)
	go loop.Run(ctx)

	go func() {
		log.Printf("listening on %s", *port)
		if err := http.ListenAndServe(*port, newRouter(bot, db, bcast)); err != nil {
			log.Print(err)
		}
	}()

	newShell(bot, db).Start()
}

func loadBootConfig(path string) onboard.TankConfig {
	explicit := path != ""
	if !explicit {
		abs, err := filepath.Abs(ENV.SRCDIR + "/tank_config.yaml")
		if err != nil {
			panic(err)
		}
		path = abs
	}

	cfg, err := onboard.LoadConfig(path)
	if err != nil {
		if explicit {
			panic(err)
		}
		log.Printf("%v; using defaults", err)
		return onboard.DefaultConfig()
	}
	return cfg
}
