package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tejcart/internal/config"
	"tejcart/internal/gateway"
	"tejcart/internal/ledger"
	"tejcart/internal/mail"
	"tejcart/internal/model"
	"tejcart/internal/order"
	"tejcart/internal/payment"
	"tejcart/internal/queue"
	"tejcart/internal/router"
	rediskey "tejcart/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Payment{},
		&model.Order{},
		&model.Buyer{},
		&model.BuyerOrderRef{},
		&model.Seller{},
		&model.SellerOrderEntry{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	// All clients are built once here and injected; nothing reaches for
	// package-level state.
	gw := gateway.NewClient(cfg.RazorpayBaseURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.GatewayTimeout)
	payments := payment.NewService(db, gw)
	ledgers := ledger.NewPropagator(db)
	locks := rediskey.NewPlacementLocker(rdb, cfg.PlacementLockTTL)
	orders := order.NewService(db, payments, ledgers, locks)

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()
	outbox := queue.NewOutbox(rdb, cfg.MailEventStream)
	relay := queue.NewRelay(rdb, producer, cfg.MailEventStream, cfg.MailEventGroup, cfg.MailEventConsumer)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPAddr != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass)
	}
	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, mailer)
	defer consumer.Close()

	// Confirmation mail goes through the outbox after the order committed;
	// a failed append only costs the mail, never the order.
	orders.AddPostCommitHook(func(ctx context.Context, o *model.Order) {
		msg := queue.MailMessage{
			OrderNo:      o.OrderNo,
			Email:        o.Address.Email,
			ProductTitle: o.ProductTitle,
			SellerTitle:  o.SellerTitle,
			OrderPrice:   o.OrderPrice,
			Address:      formatAddress(o.Address),
		}
		if err := outbox.Publish(ctx, msg); err != nil {
			log.Printf("order %s: publish mail event: %v", o.OrderNo, err)
		}
	})

	r := gin.Default()
	router.Setup(r, db, rdb, payments, orders, ledgers, cfg)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		relay.Run(ctx)
		return nil
	})
	g.Go(func() error {
		consumer.Run(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func formatAddress(a model.DeliveryAddress) string {
	return a.Street + ", " + a.Area + ", " + a.City + ", " + a.State + ", " + a.Pincode
}
