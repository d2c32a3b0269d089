package main

import (
	"github.com/sirupsen/logrus"

	RangeGo "github.com/miyingqi/RangeGo"
	_ "github.com/miyingqi/RangeGo/docs"
)

// @title RangeGo
// @version 1.0
// @description Range-aware static file server with permissive CORS.
func main() {
	cfg := RangeGo.LoadConfig()
	if err := RangeGo.New(cfg).Run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
