package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"lexicon/api/grpcserver"
	"lexicon/domain/dictionary"
	"lexicon/infra/journal"
	"lexicon/infra/kafka"
	"lexicon/infra/metrics"
	"lexicon/infra/outbox"
	"lexicon/infra/sequence"
	"lexicon/jobs/broadcaster"
	"lexicon/logger"
	"lexicon/service"
	"lexicon/snapshot"
)

type serveConfiguration struct {
	Base *baseConfiguration

	DictPath          string
	DataDir           string
	GRPCAddr          string
	MetricsAddr       string
	SegmentSize       int64
	SnapshotInterval  time.Duration
	KafkaClient       string
	KafkaBrokers      []string
	KafkaTopic        string
	BroadcastInterval time.Duration
	MaxRetries        uint32
}

const (
	kafkaClientNone   = "none"
	kafkaClientSarama = "sarama"
	kafkaClientGo     = "kafka-go"
)

func newServeCmd(base *baseConfiguration) *cobra.Command {
	config := &serveConfiguration{Base: base}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dictionary gRPC service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config)
		},
	}
	cmd.Flags().StringVar(&config.DictPath, flagNameDict, "", "word list to seed the dictionary with when there is no snapshot")
	cmd.Flags().StringVar(&config.DataDir, "data-dir", "", "directory for journal, snapshot and outbox (default is $LEXICON_HOME/data)")
	cmd.Flags().StringVar(&config.GRPCAddr, "grpc-addr", ":50051", "gRPC listen address")
	cmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr", ":9090", "Prometheus metrics listen address, disabled when empty")
	cmd.Flags().Int64Var(&config.SegmentSize, "segment-size", journal.DefaultSegmentSize, "journal segment size in bytes")
	cmd.Flags().DurationVar(&config.SnapshotInterval, "snapshot-interval", time.Minute, "how often to snapshot the dictionary")
	cmd.Flags().StringVar(&config.KafkaClient, "kafka-client", kafkaClientNone, "publish added words with: none, sarama, kafka-go")
	cmd.Flags().StringSliceVar(&config.KafkaBrokers, "kafka-brokers", []string{"localhost:9092"}, "Kafka bootstrap brokers")
	cmd.Flags().StringVar(&config.KafkaTopic, "kafka-topic", "lexicon.words", "topic for word events")
	cmd.Flags().DurationVar(&config.BroadcastInterval, "broadcast-interval", broadcaster.DefaultInterval, "outbox polling interval")
	cmd.Flags().Uint32Var(&config.MaxRetries, "max-retries", broadcaster.DefaultMaxRetries, "publish attempts per word")
	return cmd
}

func (c *serveConfiguration) dataDir() string {
	if c.DataDir == "" {
		return filepath.Join(c.Base.HomeDir, "data")
	}
	return c.DataDir
}

func (c *serveConfiguration) publisher() (broadcaster.Publisher, error) {
	switch c.KafkaClient {
	case kafkaClientNone, "":
		return nil, nil
	case kafkaClientSarama:
		return broadcaster.DialSarama(c.KafkaBrokers, c.KafkaTopic)
	case kafkaClientGo:
		return kafka.NewProducer(c.KafkaBrokers, c.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown kafka client %q", c.KafkaClient)
	}
}

func runServe(ctx context.Context, c *serveConfiguration) (err error) {
	log := c.Base.log
	dir := c.dataDir()
	snapWriter := &snapshot.Writer{Dir: filepath.Join(dir, "snapshot")}
	journalDir := filepath.Join(dir, "journal")

	dict, seq := dictionary.New(), sequence.New(0)
	if _, err := service.Bootstrap(service.BootstrapConfig{
		DictPath:     c.DictPath,
		SnapshotPath: snapWriter.Path(),
		JournalDir:   journalDir,
	}, dict, seq, log); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	jrnl, err := journal.Open(journal.Config{Dir: journalDir, SegmentSize: c.SegmentSize})
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { err = errors.Join(err, jrnl.Close()) }()

	pub, err := c.publisher()
	if err != nil {
		return err
	}
	var (
		ob *outbox.Outbox
		b  *broadcaster.Broadcaster
	)
	m := metrics.New()
	if pub != nil {
		if ob, err = outbox.Open(filepath.Join(dir, "outbox")); err != nil {
			return errors.Join(err, pub.Close())
		}
		defer func() { err = errors.Join(err, ob.Close()) }()
		b = broadcaster.New(ob, pub, broadcaster.Config{
			Interval:   c.BroadcastInterval,
			MaxRetries: c.MaxRetries,
		}, m, log)
		defer func() { err = errors.Join(err, b.Close()) }()
	}

	svc := service.NewDictionaryService(service.Options{
		Dict:    dict,
		Journal: jrnl,
		Outbox:  ob,
		Seq:     seq,
		Metrics: m,
		Logger:  log,
	})
	// sets the tree gauges
	svc.Stats()

	g, ctx := errgroup.WithContext(ctx)

	lis, err := net.Listen("tcp", c.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.GRPCAddr, err)
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcserver.LoggingInterceptor(log)))
	grpcserver.RegisterDictionaryServer(grpcSrv, grpcserver.NewServer(svc))
	hs := health.NewServer()
	hs.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, hs)

	g.Go(func() error {
		log.Info("gRPC listening", slog.String("addr", lis.Addr().String()))
		if err := grpcSrv.Serve(lis); !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hs.Shutdown()
		grpcSrv.GracefulStop()
		return nil
	})

	if c.MetricsAddr != "" {
		httpSrv := &http.Server{Addr: c.MetricsAddr, Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("metrics listening", slog.String("addr", c.MetricsAddr))
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(sctx)
		})
	}

	if b != nil {
		g.Go(func() error { return b.Run(ctx) })
	}

	g.Go(func() error { return svc.RunSnapshotJob(ctx, snapWriter, c.SnapshotInterval) })

	err = g.Wait()
	if _, serr := svc.WriteSnapshot(snapWriter); serr != nil {
		log.Warn("final snapshot", logger.Error(serr))
	}
	return err
}
