package navtrack

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"k8s.io/utils/clock"

	"github.com/sfiharvest/navtrack/internal/navtrack/core"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/filter"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/model"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/service"
	"github.com/sfiharvest/navtrack/internal/navtrack/core/track"
	"github.com/sfiharvest/navtrack/internal/navtrack/notifier"
	"github.com/sfiharvest/navtrack/internal/navtrack/rotation"
	"github.com/sfiharvest/navtrack/internal/navtrack/scheduler"
	"github.com/sfiharvest/navtrack/internal/navtrack/server"
	"github.com/sfiharvest/navtrack/internal/navtrack/server/http"
	"github.com/sfiharvest/navtrack/internal/navtrack/server/mqtt"
	"github.com/sfiharvest/navtrack/internal/navtrack/storage"
	"github.com/sfiharvest/navtrack/internal/navtrack/writer"
	"github.com/sfiharvest/navtrack/pkg/log"
	pkgmqtt "github.com/sfiharvest/navtrack/pkg/mqtt"
	"github.com/sfiharvest/navtrack/pkg/mqtt/topic"
	"github.com/sfiharvest/navtrack/pkg/options"
)

// Task names.
const (
	TaskDisplay   = "display"
	TaskArchive   = "archive"
	TaskRotation  = "rotation"
	TaskHistory   = "history"
	TaskHeartbeat = "heartbeat"
)

type Config struct {
	HttpOptions    *options.HttpOptions
	MqttOptions    *options.MqttOptions
	S3Options      *options.S3Options
	VehicleOptions *options.VehicleOptions
	OutputOptions  *options.OutputOptions
	GeoOptions     *options.GeoOptions

	// Fs and Clock default to the operating system's.
	Fs    afero.Fs
	Clock clock.WithTicker
	// Client replaces the MQTT client built from MqttOptions.
	Client pkgmqtt.Client
}

// NewServer assembles navtrack. It fails if the output directory cannot be
// created.
func (cfg *Config) NewServer() (*Server, error) {
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	out := cfg.OutputOptions

	// 1. Output directory
	if err := fs.MkdirAll(out.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", out.Dir, err)
	}

	// 2. Pure domain: filter, transformer, buffers
	transformer, err := cfg.GeoOptions.Transformer()
	if err != nil {
		return nil, fmt.Errorf("failed to init transformer: %w", err)
	}
	directory := filter.NewNodeDirectory()
	displayBuf := track.NewBuffer("display", track.Retain, track.WithMaxPoints(out.DisplayMaxPoints))
	archiveBuf := track.NewBuffer("archive", track.Drain)

	// 3. Infrastructure: MQTT client shared by ingress and heartbeats
	client := cfg.Client
	if client == nil {
		client, err = InitializeMQTTClient(cfg.MqttOptions)
		if err != nil {
			return nil, err
		}
	}
	topics := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
	qos := int(cfg.MqttOptions.QoS)

	// 4. Infrastructure: object storage (Secondary Adapter)
	var (
		archiveStorage core.ArchiveStorage
		bucket         *storage.MinIO
	)
	if cfg.S3Options.Enabled {
		bucket, err = storage.NewMinIO(cfg.S3Options, fs)
		if err != nil {
			return nil, err
		}
		archiveStorage = bucket
	}

	var heartbeats core.HeartbeatNotifier
	if cfg.VehicleOptions.HeartbeatInterval > 0 {
		heartbeats = notifier.NewMQTTNotifier(client, topics, qos)
	}

	// 5. Core Domain Service
	svc, err := service.New(service.Deps{
		Directory:     directory,
		Filter:        filter.New(directory, model.NewAllowList(cfg.VehicleOptions.Tracked...)),
		Transformer:   transformer,
		Display:       displayBuf,
		Archive:       archiveBuf,
		DisplayWriter: writer.NewDisplay(fs, out.Dir, out.Description),
		HistoryWriter: writer.NewHistory(fs, out.Dir, out.Description),
		Notifier:      heartbeats,
		Aliases:       model.NewAliases(cfg.VehicleOptions.Aliases),
		Self:          service.Self{Src: cfg.VehicleOptions.NodeID, SysName: cfg.VehicleOptions.NodeName},
		Clock:         clk,
	})
	if err != nil {
		return nil, err
	}

	rotator, err := rotation.New(rotation.Config{
		Dir:     out.Dir,
		Buffer:  archiveBuf,
		Archive: writer.NewArchive(fs),
		Fs:      fs,
		Clock:   clk,
		Storage: archiveStorage,
	})
	if err != nil {
		return nil, err
	}

	// 6. Periodic tasks
	sched := scheduler.New(scheduler.WithClock(clk), scheduler.WithStopTimeout(out.StopTimeout))
	tasks := []scheduler.Task{
		{Name: TaskDisplay, Interval: out.DisplayInterval, Run: svc.RefreshDisplay, RunOnStop: true},
		{Name: TaskArchive, Interval: out.ArchiveInterval, Run: rotator.Flush, RunOnStop: true},
		{Name: TaskRotation, Interval: out.RotationInterval, Run: rotator.Rotate},
		{Name: TaskHistory, Interval: out.HistoryInterval, Run: svc.SnapshotHistory},
		{Name: TaskHeartbeat, Interval: cfg.VehicleOptions.HeartbeatInterval, Run: svc.Heartbeat},
	}
	for _, t := range tasks {
		if err := sched.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register task %s: %w", t.Name, err)
		}
	}

	// 7. Ingress Servers (Primary Adapters)
	mqttSrv := mqtt.NewServer(client, topics, cfg.MqttOptions.ShareGroup, qos, svc)
	httpSrv := http.NewServer(cfg.HttpOptions, svc, mqttSrv.Ready)

	return &Server{
		manager:   server.NewManager(mqttSrv, httpSrv, sched),
		service:   svc,
		rotator:   rotator,
		scheduler: sched,
		bucket:    bucket,
	}, nil
}

// InitializeMQTTClient builds the client, deriving a client ID from the
// hostname when none is configured.
func InitializeMQTTClient(opts *options.MqttOptions) (pkgmqtt.Client, error) {
	cfg := opts.ToClientConfig("")

	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("navtrack-%s", hostname)
	}

	client, err := pkgmqtt.NewClient(cfg)
	if err != nil {
		log.Error(err, "failed to new mqtt client")
		return nil, err
	}

	return client, nil
}
