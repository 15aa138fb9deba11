// nodesim runs the duty-cycle controller against fake hardware on the
// host: wakes are instantaneous, the battery follows a simple discharge
// model, and every transmitted packet is printed. Useful for watching the
// hysteresis behaviour of a provisioning before flashing it.
//
// Run a scripted number of wakes:
//
//	nodesim -node JH2 -wakes 120 -mv 1400 -drain 5
//
// or drop into the prompt and drive it by hand:
//
//	> run 30
//	> batt 950
//	> run 5
//	> state
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/shlex"

	"github.com/UKHASnet/ukhasnet-fc-node/config"
	"github.com/UKHASnet/ukhasnet-fc-node/hw/hosttest"
	"github.com/UKHASnet/ukhasnet-fc-node/node"
)

type sim struct {
	n     *node.Node
	radio *hosttest.Radio
	batt  *hosttest.Battery
	therm *hosttest.Thermometer
	slp   *hosttest.Sleeper

	drainMV uint16
	seen    int // packets already printed
	wake    int
}

func (s *sim) step() {
	s.n.Step()
	s.wake++
	if s.batt.MV > s.drainMV {
		s.batt.MV -= s.drainMV
	}
	for ; s.seen < len(s.radio.Sent); s.seen++ {
		st := s.n.State()
		fmt.Printf("wake %4d  tx %q  mode=%s batt=%dmV\n",
			s.wake, s.radio.Sent[s.seen], st.Mode, s.batt.MV)
	}
}

func (s *sim) printState() {
	st := s.n.State()
	fmt.Printf("wake=%d seq=%c count=%d mode=%s last=%dmV sleeps(irq=%d timer=%d)\n",
		s.wake, st.Seq, st.WakeCount, st.Mode, st.LastBatteryMV,
		s.slp.InterruptWaits, len(s.slp.FixedSleeps))
}

func main() {
	nodeID := flag.String("node", "JH2", "embedded provisioning to load")
	wakes := flag.Int("wakes", 0, "wakes to run non-interactively (0 = prompt)")
	mv := flag.Int("mv", 1450, "initial battery millivolts")
	drain := flag.Int("drain", 2, "millivolts lost per wake")
	tempC := flag.Float64("temp", 21.5, "ambient temperature C")
	flag.Parse()

	cfg, err := config.Lookup(*nodeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "provisioning %s: %v\n", *nodeID, err)
		os.Exit(1)
	}

	p, radio, batt, therm, _, slp := hosttest.Peripherals()
	batt.MV = uint16(*mv)
	therm.TempC = float32(*tempC)

	n, err := node.New(cfg, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	n.Boot()

	s := &sim{n: n, radio: radio, batt: batt, therm: therm, slp: slp, drainMV: uint16(*drain)}

	if *wakes > 0 {
		for i := 0; i < *wakes; i++ {
			s.step()
		}
		s.printState()
		return
	}

	repl(s)
}

func repl(s *sim) {
	in := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for in.Scan() {
		args, err := shlex.Split(in.Text())
		if err != nil {
			fmt.Println("parse:", err)
		} else if len(args) > 0 && !dispatch(s, args) {
			return
		}
		fmt.Print("> ")
	}
}

// dispatch runs one command; false means quit.
func dispatch(s *sim, args []string) bool {
	switch args[0] {
	case "run":
		n := 1
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil && v > 0 {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			s.step()
		}
	case "batt":
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil && v >= 0 {
				s.batt.MV = uint16(v)
			}
		}
	case "temp":
		if len(args) > 1 {
			if v, err := strconv.ParseFloat(args[1], 32); err == nil {
				s.therm.TempC = float32(v)
			}
		}
	case "drain":
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1]); err == nil && v >= 0 {
				s.drainMV = uint16(v)
			}
		}
	case "state":
		s.printState()
	case "quit", "exit":
		return false
	default:
		fmt.Println("commands: run [n], batt <mv>, temp <c>, drain <mv>, state, quit")
	}
	return true
}
