// Command pillars computes four pillars and zodiac charts from the command
// line without calling the language model.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/domain/consultation"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/app/models"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/ganzhi"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/internal/pkg/zodiac"
	"github.com/koungmoo-cpu/Auriton-Insight-v2/pkg/logger"
)

type options struct {
	logLevel string
	date     string
	time     string
	calendar string
	leap     bool
	asJSON   bool
}

type cli struct {
	opts   options
	out    io.Writer
	logger *zap.Logger
	calc   *ganzhi.Calculator
	lunar  consultation.LunarLookup
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	lunar := ganzhi.LunarGo{}
	c := &cli{
		out:    out,
		logger: zap.NewNop(),
		calc:   ganzhi.NewCalculator(lunar),
		lunar:  lunar,
	}

	root := &cobra.Command{
		Use:           "pillars",
		Short:         "Four pillars and zodiac calculator",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logger.ParseLevel(c.opts.logLevel)
			if err != nil {
				return err
			}
			l, err := logger.New(level, true)
			if err != nil {
				return err
			}
			c.logger = l
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&c.opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&c.opts.date, "date", "d", "", "Birth date, YYYY-MM-DD")
	root.PersistentFlags().StringVarP(&c.opts.time, "time", "t", "unknown", "Birth time: HH:MM, am/pm, 자시..해시 or unknown")
	root.PersistentFlags().BoolVar(&c.opts.asJSON, "json", false, "Print JSON instead of text")
	_ = root.MarkPersistentFlagRequired("date")

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Print the four pillars, element tally and zodiac chart",
		Args:  cobra.NoArgs,
		RunE:  c.runCompute,
	}
	computeCmd.Flags().StringVarP(&c.opts.calendar, "calendar", "c", "solar", "Calendar: solar, lunar or lunar-leap")
	computeCmd.Flags().BoolVar(&c.opts.leap, "leap", false, "Lunar date is in a leap month")

	zodiacCmd := &cobra.Command{
		Use:   "zodiac",
		Short: "Print the Sun, Moon and Ascendant signs",
		Args:  cobra.NoArgs,
		RunE:  c.runZodiac,
	}

	root.AddCommand(computeCmd, zodiacCmd)
	return root
}

func (c *cli) resolve(calendarType string, leap bool) (ganzhi.Result, error) {
	date, err := consultation.ParseBirthDate(c.opts.date)
	if err != nil {
		return ganzhi.Result{}, err
	}
	hour, _, err := consultation.ParseBirthTime(c.opts.time)
	if err != nil {
		return ganzhi.Result{}, err
	}
	cal, err := consultation.ParseCalendarType(calendarType, leap)
	if err != nil {
		return ganzhi.Result{}, err
	}
	if err := ganzhi.ValidateDate(date, cal); err != nil {
		return ganzhi.Result{}, err
	}

	result, err := c.calc.ComputePillars(date.Year, date.Month, date.Day, hour, cal)
	if err != nil {
		return ganzhi.Result{}, err
	}
	c.logger.Debug("Computed pillars",
		zap.String("input", date.String()),
		zap.String("calendar", cal.String()),
		zap.String("solar", result.Solar.String()),
		zap.String("pillars", result.Pillars.Hanja()))
	return result, nil
}

func (c *cli) runCompute(_ *cobra.Command, _ []string) error {
	result, err := c.resolve(c.opts.calendar, c.opts.leap)
	if err != nil {
		return err
	}
	chart := zodiac.Compute(result.Solar.Month, result.Solar.Day, result.Hour)

	if c.opts.asJSON {
		return c.writeJSON(struct {
			Pillars *models.PillarsView `json:"pillars"`
			Chart   zodiac.Chart        `json:"chart"`
		}{models.NewPillarsView(&result), chart})
	}

	label := color.New(color.FgHiBlack)
	value := color.New(color.FgCyan, color.Bold)

	c.line(label, value, "사주 명식", result.Pillars.String())
	c.line(label, value, "한자", result.Pillars.Hanja())
	c.line(label, color.New(color.FgYellow), "오행", result.Elements.String())
	if missing := result.Elements.Missing(); len(missing) > 0 {
		c.line(label, color.New(color.FgRed), "부족", elementNames(missing))
	}
	if result.Calendar.IsLunar() {
		c.line(label, value, "양력", result.Solar.String())
	} else if ld, err := c.lunar.SolarToLunar(result.Solar); err == nil {
		c.line(label, value, "음력", ld.String())
	} else {
		c.logger.Warn("Lunar lookup failed", zap.Error(err))
	}
	c.line(label, color.New(color.FgMagenta), "별자리", chartText(chart))
	return nil
}

func (c *cli) runZodiac(_ *cobra.Command, _ []string) error {
	result, err := c.resolve("solar", false)
	if err != nil {
		return err
	}
	chart := zodiac.Compute(result.Solar.Month, result.Solar.Day, result.Hour)

	if c.opts.asJSON {
		return c.writeJSON(chart)
	}

	label := color.New(color.FgHiBlack)
	value := color.New(color.FgMagenta, color.Bold)
	c.line(label, value, "태양", chart.Sun.Name)
	c.line(label, value, "달", chart.Moon.Name)
	c.line(label, value, "상승", chart.Ascendant.Name)
	return nil
}

func (c *cli) line(label, value *color.Color, name, text string) {
	fmt.Fprintf(c.out, "%s %s\n", label.Sprintf("%-6s", name), value.Sprint(text))
}

func (c *cli) writeJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func chartText(chart zodiac.Chart) string {
	return fmt.Sprintf("태양 %s · 달 %s · 상승 %s", chart.Sun.Name, chart.Moon.Name, chart.Ascendant.Name)
}

func elementNames(es []ganzhi.Element) string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}
