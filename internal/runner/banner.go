package runner

import (
	"github.com/netcartographer/cartographer/pkg/version"
	"github.com/projectdiscovery/gologger"
)

var banner = (`
 ┌─┐┌─┐┬─┐┌┬┐┌─┐┌─┐┬─┐┌─┐┌─┐┬ ┬┌─┐┬─┐
 │  ├─┤├┬┘ │ │ ││ ┬├┬┘├─┤├─┘├─┤├┤ ├┬┘
 └─┘┴ ┴┴└─ ┴ └─┘└─┘┴└─┴ ┴┴  ┴ ┴└─┘┴└─
`)

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s   %s\n\n", banner, version.Version)
}
