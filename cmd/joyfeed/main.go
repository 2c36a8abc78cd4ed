// Package main reads a physical gamepad and publishes raw joy samples onto
// the bus, for setups without another joystick driver node.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/simulatedsimian/joystick"

	"github.com/mavteleop/mavteleop-go/internal/bus/mqttbus"
	"github.com/mavteleop/mavteleop-go/internal/config"
	"github.com/mavteleop/mavteleop-go/internal/msg"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	jsID := flag.Int("js", 0, "joystick device id")
	rate := flag.Int("rate", 25, "sample publish rate in Hz")
	deadzone := flag.Int("deadzone", 2000, "raw axis deadzone")
	ns := flag.String("n", "", "bus namespace (overrides TELEOP_NAMESPACE)")
	flag.Parse()

	cfg := config.Load()
	if *ns != "" {
		cfg.Namespace = *ns
	}

	js, err := joystick.Open(*jsID)
	if err != nil {
		log.Fatalf("Failed to open joystick %d: %v", *jsID, err)
	}
	defer js.Close()
	log.Printf("Joystick %d: %s (%d axes, %d buttons)", *jsID, js.Name(), js.AxisCount(), js.ButtonCount())

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID + "-joyfeed").
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("Failed to connect to broker %s: %v", cfg.BrokerURL, token.Error())
	}
	defer client.Disconnect(250)

	topic := mqttbus.Topic(cfg.Namespace, "joy")
	log.Printf("Publishing joy samples to %s at %d Hz", topic, *rate)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*rate))
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			log.Println("joyfeed stopped")
			return
		case <-ticker.C:
			state, err := js.Read()
			if err != nil {
				log.Printf("joystick read failed: %v", err)
				continue
			}
			sample := toJoy(state, js.AxisCount(), js.ButtonCount(), *deadzone)
			payload, err := json.Marshal(sample)
			if err != nil {
				log.Printf("joy sample marshal failed: %v", err)
				continue
			}
			client.Publish(topic, 0, false, payload)
		}
	}
}

// toJoy normalizes a raw joystick state: axes scaled from the driver's
// signed 16-bit range to [-1, 1] with a deadzone, buttons unpacked from the
// driver's bitmask to 0/1 values.
func toJoy(state joystick.State, axisCount, buttonCount, deadzone int) msg.Joy {
	j := msg.Joy{
		Axes:    make([]float64, axisCount),
		Buttons: make([]int, buttonCount),
	}
	for i := 0; i < axisCount && i < len(state.AxisData); i++ {
		raw := state.AxisData[i]
		if raw > -deadzone && raw < deadzone {
			continue
		}
		v := float64(raw) / 32768.0
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		j.Axes[i] = v
	}
	for i := 0; i < buttonCount; i++ {
		if state.Buttons&(1<<uint(i)) != 0 {
			j.Buttons[i] = 1
		}
	}
	return j
}
