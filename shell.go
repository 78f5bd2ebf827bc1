package main

import (
	"strconv"

	"github.com/abiosoft/ishell"
	storm "github.com/asdine/storm/v3"

	"github.com/dzikibot/tankdrive/onboard"
)

func argPct(c *ishell.Context, idx, fallback int) int {
	if len(c.Args) <= idx {
		return fallback
	}
	v, err := strconv.Atoi(c.Args[idx])
	if err != nil {
		return fallback
	}
	return v
}

func newShell(bot onboard.Rover, db *storm.DB) *ishell.Shell {
	shell := ishell.New()
	shell.Println("tankdrive development shell")

	maneuvers := []struct {
		name, help string
	}{
		{"forward", "forward [pct] - drive both tracks ahead"},
		{"backward", "backward [pct] - drive both tracks in reverse"},
		{"turn_left", "turn_left [pct] - arc left"},
		{"turn_right", "turn_right [pct] - arc right"},
		{"rotate_left", "rotate_left [pct] - spin in place CCW"},
		{"rotate_right", "rotate_right [pct] - spin in place CW"},
		{"stop", "stop - target neutral on both tracks"},
	}
	for _, m := range maneuvers {
		action := m.name
		shell.AddCmd(&ishell.Cmd{
			Name: action,
			Help: m.help,
			Func: func(c *ishell.Context) {
				pct := argPct(c, 0, 50)
				if err := bot.Maneuver(action, pct); err != nil {
					c.Println(err)
				}
			},
		})
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "target",
		Help: "target <left> <right> - raw track targets -100..100",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Println("usage: target <left> <right>")
				return
			}
			left, _ := strconv.Atoi(c.Args[0])
			right, _ := strconv.Atoi(c.Args[1])
			bot.SetTarget(left, right)
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "state - dump the current telemetry frame",
		Func: func(c *ishell.Context) {
			c.Printf("%+v\n", bot.Frame())
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "test",
		Help: "test <start|stop> - scripted bring-up drive",
		Func: func(c *ishell.Context) {
			if len(c.Args) > 0 && c.Args[0] == "stop" {
				bot.StopTest()
				return
			}
			bot.StartTest()
		},
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "profile",
		Help: "profile <list|save NAME|apply NAME|delete NAME>",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Println("usage: profile <list|save NAME|apply NAME|delete NAME>")
				return
			}
			switch c.Args[0] {
			case "list":
				profiles, err := listProfiles(db)
				if err != nil {
					c.Println(err)
					return
				}
				for _, p := range profiles {
					c.Printf("%s: %+v\n", p.Name, p.Params)
				}
			case "save":
				if len(c.Args) < 2 {
					c.Println("profile save NAME")
					return
				}
				if err := saveProfile(db, c.Args[1], bot.Params()); err != nil {
					c.Println(err)
				}
			case "apply":
				if len(c.Args) < 2 {
					c.Println("profile apply NAME")
					return
				}
				params, err := loadProfile(db, c.Args[1])
				if err != nil {
					c.Println(err)
					return
				}
				bot.Retune(params)
			case "delete":
				if len(c.Args) < 2 {
					c.Println("profile delete NAME")
					return
				}
				if err := deleteProfile(db, c.Args[1]); err != nil {
					c.Println(err)
				}
			default:
				c.Printf("unknown subcommand %s\n", c.Args[0])
			}
		},
	})

	return shell
}
