package layout

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// FrameStatus describes the most recently published frame for a device
type FrameStatus struct {
	DeviceID   string `json:"deviceId"`
	Frame      int    `json:"frame"`
	LEDCount   int    `json:"ledCount"`
	DurationMS int    `json:"durationMs"`
	Timestamp  int64  `json:"timestamp"`
}

// FramePublisher pushes wiring-ordered frame data to LED controllers over
// MQTT. Raw RGB bytes go to <prefix>/<device>/frame and a JSON status to
// <prefix>/<device>/status, plus a combined <prefix>/devices topic.
type FramePublisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool
	status map[string]*FrameStatus
	mu     sync.RWMutex
}

// NewFramePublisher creates a frame publisher. If client is nil, publishing
// is disabled (for testing).
func NewFramePublisher(client mqtt.Client, prefix string) *FramePublisher {
	if prefix == "" {
		prefix = os.Getenv("MQTT_PUBLISH_PREFIX")
	}
	if prefix == "" {
		prefix = "ledlens"
	}

	return &FramePublisher{
		client: client,
		prefix: prefix,
		qos:    0,    // fire and forget, a newer frame supersedes a lost one
		retain: true, // controllers joining late pick up the latest frame
		status: make(map[string]*FrameStatus),
	}
}

// PublishFrame linearizes one frame through the mapping table and publishes
// it for the given device
func (p *FramePublisher) PublishFrame(deviceID string, pattern *PatternFile, table MappingTable, frameIdx int) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}
	if frameIdx < 0 || frameIdx >= len(pattern.Frames) {
		return fmt.Errorf("frame %d out of range (pattern has %d)", frameIdx, len(pattern.Frames))
	}

	frame := pattern.Frames[frameIdx]
	data, err := WiringOrder(frame, pattern.Grid, table)
	if err != nil {
		return fmt.Errorf("linearizing frame %d: %w", frameIdx, err)
	}

	status := &FrameStatus{
		DeviceID:   deviceID,
		Frame:      frameIdx,
		LEDCount:   len(table),
		DurationMS: frame.DurationMS,
		Timestamp:  time.Now().Unix(),
	}

	p.mu.Lock()
	p.status[deviceID] = status
	p.mu.Unlock()

	if err := p.publishRaw(deviceID, data); err != nil {
		log.Printf("Error publishing frame for %s: %v", deviceID, err)
		return err
	}
	if err := p.publishStatus(status); err != nil {
		log.Printf("Error publishing status for %s: %v", deviceID, err)
		return err
	}
	if err := p.publishCombined(); err != nil {
		log.Printf("Error publishing combined device list: %v", err)
		return err
	}

	log.Printf("Published frame %d for %s: %d LEDs, %d bytes", frameIdx, deviceID, len(table), len(data))
	return nil
}

func (p *FramePublisher) publishRaw(deviceID string, data []byte) error {
	topic := fmt.Sprintf("%s/%s/frame", p.prefix, deviceID)
	token := p.client.Publish(topic, p.qos, p.retain, data)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

func (p *FramePublisher) publishStatus(status *FrameStatus) error {
	topic := fmt.Sprintf("%s/%s/status", p.prefix, status.DeviceID)

	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// publishCombined publishes all known device statuses to a single topic
func (p *FramePublisher) publishCombined() error {
	topic := fmt.Sprintf("%s/devices", p.prefix)

	p.mu.RLock()
	combined := make([]*FrameStatus, 0, len(p.status))
	for _, s := range p.status {
		combined = append(combined, s)
	}
	p.mu.RUnlock()

	payload, err := json.Marshal(combined)
	if err != nil {
		return fmt.Errorf("marshaling combined status: %w", err)
	}

	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// ConnectMQTT builds and connects an MQTT client from config. Returns
// (nil, nil) when no broker is configured, so callers can treat MQTT as an
// optional transport.
func ConnectMQTT(cfg *MQTTConfig) (mqtt.Client, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && cfg != nil {
		broker = cfg.Broker
	}
	if broker == "" {
		log.Println("MQTT disabled: no broker configured")
		return nil, nil
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := "ledlens"
	if cfg != nil && cfg.ClientID != "" {
		clientID = cfg.ClientID
	}
	opts.SetClientID(clientID)

	if cfg != nil && cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, fmt.Errorf("timeout connecting to MQTT broker %s", broker)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", broker, token.Error())
	}

	log.Printf("Connected to MQTT broker %s as %s", broker, clientID)
	return client, nil
}
