package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host        string      `koanf:"host"`
	Addr        string      `koanf:"addr"`
	Google      Google      `koanf:"google"`
	Database    Database    `koanf:"db"`
	Study       Study       `koanf:"study"`
	Fetch       Fetch       `koanf:"fetch"`
	RateLimit   RateLimit   `koanf:"ratelimit"`
	Idempotency Idempotency `koanf:"idempotency"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

// Study configures the aggregation engine: the study-day boundary hour, the
// calendars fetched when a request names none, and the tracked subjects in
// priority order.
type Study struct {
	BoundaryHour     int       `koanf:"boundaryhour"`
	DefaultCalendars []string  `koanf:"defaultcalendars"`
	Subjects         []Subject `koanf:"subjects"`
}

type Subject struct {
	Name     string   `koanf:"name"`
	Keywords []string `koanf:"keywords"`
}

type Fetch struct {
	PageSize           int `koanf:"pagesize"`
	MaxEventsPerSource int `koanf:"maxeventspersource"`
	Concurrency        int `koanf:"concurrency"`
}

type RateLimit struct {
	WriteLimit    int `koanf:"writelimit"`
	WindowSeconds int `koanf:"windowseconds"`
}

type Idempotency struct {
	TTLMinutes int `koanf:"ttlminutes"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Addr: ":8181",
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "studa",
			Pass:   "",
			Name:   "studa",
			Schema: "studa",
		},
		Study: Study{
			BoundaryHour: 3,
		},
		Fetch: Fetch{
			PageSize:           250,
			MaxEventsPerSource: 5000,
			Concurrency:        6,
		},
		RateLimit: RateLimit{
			WriteLimit:    30,
			WindowSeconds: 60,
		},
		Idempotency: Idempotency{
			TTLMinutes: 60,
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "STUDA_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "STUDA_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
