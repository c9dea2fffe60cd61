package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/gosimulate/environment/envconfig"
	"github.com/samuelfneumann/gosimulate/experiment"
	"github.com/samuelfneumann/gosimulate/experiment/trackers"
	"github.com/samuelfneumann/gosimulate/scheduler"
	"github.com/samuelfneumann/gosimulate/utils/progressbar"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func main() {
	configPath := flag.String("config", "", "path of the environment config")
	steps := flag.Uint("steps", 1000, "number of environment steps")
	seed := flag.Uint64("seed", 192382, "seed of the random policy")
	out := flag.String("out", ".", "directory to save tracked data in")
	snapshot := flag.String("snapshot", "", "save a top-down frame of "+
		"every map slot after the run with this filename prefix")
	flag.Parse()

	logger := log.New(os.Stderr, "simulate: ", log.LstdFlags)
	if *configPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	envConf, err := envconfig.Load(*configPath)
	if err != nil {
		logger.Fatal(err)
	}

	ret := trackers.NewReturn(filepath.Join(*out, "return.bin"))
	length := trackers.NewEpisodeLength(filepath.Join(*out, "length.bin"))

	c := experiment.Config{
		Type:     experiment.OnlineExp,
		MaxSteps: *steps,
		EnvConf:  envConf,
	}
	exp, err := c.CreateExp(*seed, logger, ret, length)
	if err != nil {
		logger.Fatal(err)
	}
	defer exp.Close()

	bar := progressbar.NewManualProgressBar(os.Stdout, 50, int(*steps))
	online := exp.(*experiment.Online)
	online.OnStep = func(step uint) {
		bar.Increment()
		if step%100 == 0 || step == *steps {
			bar.Display()
		}
	}

	if err := exp.Run(); err != nil {
		logger.Fatal(err)
	}
	fmt.Println()
	if err := exp.Save(); err != nil {
		logger.Fatal(err)
	}

	summarize("return", ret.Data())
	summarize("episode length", length.Data())

	if *snapshot != "" {
		if err := saveFrames(online.Scheduler(), *snapshot); err != nil {
			logger.Fatal(err)
		}
	}
}

func summarize(name string, data []float64) {
	if len(data) == 0 {
		fmt.Printf("%v: no finished episodes\n", name)
		return
	}
	mean, std := stat.MeanStdDev(data, nil)
	fmt.Printf("%v: episodes %v | mean %.3f | std %.3f | min %.3f | "+
		"max %.3f\n", name, len(data), mean, std, floats.Min(data),
		floats.Max(data))
}

// saveFrames steps the scheduler once more and saves the top-down frame
// of every map slot as a PNG
func saveFrames(s *scheduler.Scheduler, prefix string) error {
	res, err := s.Step(scheduler.Kwargs{"return_frames": true})
	if err != nil {
		return fmt.Errorf("saveFrames: %v", err)
	}
	for i, frame := range res.Frames {
		name := fmt.Sprintf("%v%v.png", prefix, i)
		if err := gg.SavePNG(name, frame); err != nil {
			return fmt.Errorf("saveFrames: %v", err)
		}
	}
	return nil
}
