package main

import (
	"os"
	"path/filepath"

	storm "github.com/asdine/storm/v3"

	"github.com/dzikibot/tankdrive/onboard/drive"
	oberrors "github.com/dzikibot/tankdrive/onboard/errors"
)

// Profile is a named drive tuning stored in the local db, so a setup that
// works on a given surface can be recalled without editing the config file.
type Profile struct {
	Name   string       `storm:"id" json:"name"`
	Params drive.Params `json:"params"`
}

func openDb(dbFile string) (*storm.DB, error) {
	dir := filepath.Dir(dbFile)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, 0755)
	}
	return storm.Open(dbFile)
}

func saveProfile(db *storm.DB, name string, params drive.Params) error {
	return db.Save(&Profile{Name: name, Params: params})
}

func loadProfile(db *storm.DB, name string) (params drive.Params, err error) {
	var p Profile
	err = db.One("Name", name, &p)
	if err == storm.ErrNotFound {
		return params, oberrors.NoSuchProfileError{Name: name}
	}
	if err != nil {
		return params, err
	}
	return p.Params, nil
}

func listProfiles(db *storm.DB) (profiles []Profile, err error) {
	err = db.All(&profiles)
	if err == storm.ErrNotFound {
		err = nil
	}
	return profiles, err
}

func deleteProfile(db *storm.DB, name string) error {
	err := db.DeleteStruct(&Profile{Name: name})
	if err == storm.ErrNotFound {
		return oberrors.NoSuchProfileError{Name: name}
	}
	return err
}
