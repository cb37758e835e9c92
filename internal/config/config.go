package config

import (
	"log/slog"
	"time"

	"github.com/feastly/api/internal/service/models/order"
	"github.com/feastly/api/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil {
		panic("error while loading .env file: " + err.Error())
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/feastly-api")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(nil)
	log := slog.New(handler)
	slog.SetDefault(log)
}

// StatusSchedule reads the status progression stages from configuration,
// falling back to the default five equal stages when absent or malformed.
func StatusSchedule() order.Schedule {
	raw := viper.GetStringSlice("orders.status_schedule")
	if len(raw) == 0 {
		return order.DefaultSchedule()
	}

	schedule := make(order.Schedule, 0, len(raw))
	for _, s := range raw {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			slog.Warn("Invalid status schedule stage, using default schedule", "stage", s)

			return order.DefaultSchedule()
		}
		schedule = append(schedule, d)
	}

	return schedule
}
