package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"weatherapp/catalog"
	"weatherapp/datasource"
	"weatherapp/forecast"
	"weatherapp/session"
	"weatherapp/temporal"

	flag "github.com/spf13/pflag"
)

const help = `commands:
  search <text>    find cities by name or country
  select <n|name>  pick a city from the results (or by name)
  day <n>          show the hourly detail of forecast day n (1-3)
  back             return to the 3-day forecast
  show             redraw the current view
  quit             exit`

func main() {
	datasource.LoadEnv()

	catalogFile := flag.String("catalog", os.Getenv("WEATHERAPP_CATALOG"), "Path to a JSON city catalog")
	cityName := flag.StringP("city", "c", "", "select this city on startup")
	dayNumber := flag.IntP("day", "d", 0, "with --city, open this forecast day (1-3)")
	once := flag.Bool("once", false, "print the selected view and exit instead of prompting")
	flag.Parse()

	cities := catalog.Default()
	if *catalogFile != "" {
		var err error
		if cities, err = catalog.Load(*catalogFile); err != nil {
			log.Fatalf("Failed to load city catalog: %v", err)
		}
	}

	synth := forecast.NewSynthesizer(temporal.SystemClock{}, nil)
	cli := &cli{
		catalog: cities,
		session: session.New(cities, synth),
		out:     os.Stdout,
	}

	if *cityName != "" {
		cli.exec("select " + *cityName)
		if *dayNumber > 0 {
			cli.exec("day " + strconv.Itoa(*dayNumber))
		}
	}
	if *once {
		cli.exec("show")
		return
	}

	fmt.Fprintln(cli.out, "Weather App")
	fmt.Fprintln(cli.out, help)
	cli.run(os.Stdin)
}

type cli struct {
	catalog *catalog.Catalog
	session *session.Session
	out     io.Writer
}

func (c *cli) run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")
		if !scanner.Scan() {
			return
		}
		if !c.exec(scanner.Text()) {
			return
		}
	}
}

// exec handles one command line; it returns false when the user quits
func (c *cli) exec(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprintln(c.out, help)
	case "show":
		render(c.out, c.session.View())
	case "search":
		if _, err = c.session.Search(arg); err == nil {
			render(c.out, c.session.View())
		}
	case "select":
		err = c.selectCity(arg)
	case "day":
		var n int
		if n, err = strconv.Atoi(arg); err == nil {
			if _, err = c.session.SelectDayIndex(n - 1); err == nil {
				render(c.out, c.session.View())
			}
		}
	case "back":
		if err = c.session.Back(); err == nil {
			render(c.out, c.session.View())
		}
	default:
		err = fmt.Errorf("unknown command %q (try help)", cmd)
	}

	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return true
}

func (c *cli) selectCity(arg string) error {
	city, ok := c.catalog.Lookup(arg)
	if !ok {
		n, err := strconv.Atoi(arg)
		results := c.session.View().Results
		if err != nil || n < 1 || n > len(results) {
			return fmt.Errorf("no city %q in the catalog or search results", arg)
		}
		city = results[n-1]
	}

	if _, err := c.session.SelectCity(city); err != nil {
		return err
	}
	render(c.out, c.session.View())
	return nil
}
