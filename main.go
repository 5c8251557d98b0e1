package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/thetooth/check-jitter/check"
	"github.com/thetooth/check-jitter/config"
	"github.com/thetooth/check-jitter/jitter"
	"github.com/thetooth/check-jitter/report"
	"github.com/thetooth/check-jitter/threshold"
)

var version = "dev"

const helpText = `check-jitter - A monitoring plugin that measures network jitter.

The plugin sends a series of ICMP echo probes to a single host, computes the
absolute deltas between consecutive round trip times and aggregates them into
one figure that is checked against the warning and critical thresholds.

AGGREGATION METHOD
  average: the arithmetic mean of all deltas [default]
  median:  the midpoint of the sorted deltas
  max:     the largest delta
  min:     the smallest delta

SAMPLE INTERVALS
  With -m and -M both 0 the next probe is sent as soon as the previous one
  completes or times out. Equal values give a fixed interval, different
  values a random interval drawn uniformly between the two. -m must be less
  than or equal to -M. Worst case runtime is samples * (timeout + max
  interval), size your check interval accordingly.

THRESHOLD SYNTAX
  Thresholds use monitoring plugin range syntax:
    10      alert if jitter < 0 or > 10
    10:     alert if jitter < 10
    ~:10    alert if jitter > 10
    10:20   alert if jitter < 10 or > 20
    @10:20  alert if jitter >= 10 and <= 20
`

func main() {
	line, code := run(os.Args[1:])
	fmt.Println(line)
	os.Exit(code)
}

func run(args []string) (line string, code int) {
	fs := flag.NewFlagSet("check-jitter", flag.ContinueOnError)
	fs.SortFlags = false

	var (
		host        = fs.StringP("host", "H", "", "hostname or IP address to ping")
		samples     = fs.IntP("samples", "s", 10, "number of pings to send, must be greater than 2")
		timeoutMs   = fs.Uint64P("timeout", "t", 1000, "timeout in milliseconds per individual ping")
		minMs       = fs.Uint64P("min-interval", "m", 0, "minimum interval between pings in milliseconds")
		maxMs       = fs.Uint64P("max-interval", "M", 0, "maximum interval between pings in milliseconds")
		method      = fs.StringP("aggregation-method", "a", "average", "one of average, median, max or min")
		warning     = fs.StringP("warning", "w", "", "warning range for jitter in milliseconds")
		critical    = fs.StringP("critical", "c", "", "critical range for jitter in milliseconds")
		precision   = fs.IntP("precision", "p", 3, "decimal places in the output")
		dgram       = fs.BoolP("dgram-socket", "D", false, "use a datagram socket instead of a raw socket (expert option)")
		verbose     = fs.CountP("verbose", "v", "increase verbosity, repeat for more detail (e.g. -vvv)")
		showVersion = fs.Bool("version", false, "print version and exit")
	)
	fs.Usage = func() {
		fmt.Fprint(os.Stdout, helpText)
		fmt.Fprintln(os.Stdout, "Usage:\n  check-jitter -H <host> [options]")
		fmt.Fprintln(os.Stdout, "Options:")
		fmt.Fprintln(os.Stdout, fs.FlagUsages())
	}

	// Per the monitoring plugin guidelines --help, --version and argument
	// errors all exit with the unknown status code
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return "", threshold.Unknown.ExitCode()
		}
		return report.RenderUnknown(fmt.Errorf("command line parsing produced an error: %v", err)), threshold.Unknown.ExitCode()
	}
	if *showVersion {
		return fmt.Sprintf("check-jitter %v", version), threshold.Unknown.ExitCode()
	}

	setupLogging(*verbose)

	settings := config.Settings{
		Host:        *host,
		Samples:     *samples,
		Timeout:     time.Duration(*timeoutMs) * time.Millisecond,
		MinInterval: time.Duration(*minMs) * time.Millisecond,
		MaxInterval: time.Duration(*maxMs) * time.Millisecond,
		Method:      *method,
		Warning:     *warning,
		Critical:    *critical,
		Precision:   *precision,
		DgramSocket: *dgram,
	}
	if err := settings.Validate(); err != nil {
		return report.RenderUnknown(err), threshold.Unknown.ExitCode()
	}
	thresholds := settings.Thresholds()

	logrus.Info("Will check jitter for host:        ", settings.Host)
	logrus.Info("Aggregation method:                ", settings.AggregationMethod())
	logrus.Info("Socket type:                       ", settings.SocketType())
	logrus.Info("Sample size:                       ", settings.Samples)
	logrus.Info("Timeout per ping:                  ", settings.Timeout)
	logrus.Info("Minimum wait time between pings:   ", settings.MinInterval)
	logrus.Info("Maximum wait time between pings:   ", settings.MaxInterval)
	logrus.Info("Decimal precision:                 ", settings.Precision)
	logrus.Info("Warning threshold:                 ", thresholds.Warning)
	logrus.Info("Critical threshold:                ", thresholds.Critical)

	pinger, err := check.NewPinger(settings.Host, settings.SocketType())
	if err != nil {
		return report.RenderUnknown(err), threshold.Unknown.ExitCode()
	}
	defer pinger.Close()

	sampler := check.Sampler{
		Prober:   pinger,
		Schedule: check.NewScheduler(settings.MinInterval, settings.MaxInterval),
		Samples:  settings.Samples,
		Timeout:  settings.Timeout,
	}
	sequence := sampler.Run()

	deltas, err := jitter.Deltas(sequence)
	if err != nil {
		return report.RenderUnknown(err), threshold.Unknown.ExitCode()
	}

	value := jitter.Aggregate(deltas, settings.AggregationMethod())
	logrus.Info("Aggregated jitter: ", value, "ms")

	status := threshold.Evaluate(value, thresholds)
	return report.Render(status, settings.AggregationMethod(), value, settings.Precision, thresholds), status.ExitCode()
}

func setupLogging(verbosity int) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case verbosity >= 3:
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetReportCaller(true)
	case verbosity == 2:
		logrus.SetLevel(logrus.InfoLevel)
	case verbosity == 1:
		logrus.SetLevel(logrus.WarnLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}
