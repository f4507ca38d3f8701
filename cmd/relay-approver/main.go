// Command relay-approver answers relay pairing requests published by the storefront.
// It stands in for the remote wallet that approves or rejects a relay-protocol session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/wallet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var redisAddr, redisPassword, account, reason string
	var redisDB int
	var reject, once bool

	flagSet := pflag.NewFlagSet("relay-approver", pflag.ContinueOnError)
	flagSet.StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address carrying relay pub/sub")
	flagSet.StringVar(&redisPassword, "redis-password", "", "Redis password")
	flagSet.IntVar(&redisDB, "redis-db", 0, "Redis database")
	flagSet.StringVar(&account, "account", "", "account address returned on approval")
	flagSet.BoolVar(&reject, "reject", false, "reject every pairing request")
	flagSet.StringVar(&reason, "reason", "User rejected the session", "rejection reason")
	flagSet.BoolVar(&once, "once", false, "exit after answering one request")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if !reject && account == "" {
		return fmt.Errorf("--account is required unless --reject is set")
	}

	log := logger.NewWriterLogger(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: redisAddr, Password: redisPassword, DB: redisDB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect to redis at %s: %w", redisAddr, err)
	}

	relay := wallet.NewRedisRelay(client)
	requests, err := relay.ListenPairings(ctx)
	if err != nil {
		return err
	}
	log.Info("RELAY", fmt.Sprintf("Listening for pairing requests on %s", relay.PairingChannel))

	for req := range requests {
		msg := wallet.RelayMessage{Type: wallet.RelaySessionApprove, Topic: req.Topic, Accounts: []string{account}}
		if reject {
			msg = wallet.RelayMessage{Type: wallet.RelaySessionReject, Topic: req.Topic, Reason: reason}
		}
		if err := relay.Respond(ctx, req.Topic, msg); err != nil {
			log.Error("RELAY", fmt.Sprintf("Failed to answer %s: %v", req.Topic, err))
			continue
		}
		log.Info("RELAY", fmt.Sprintf("Answered %s with %s (chain %d)", req.Topic, msg.Type, req.ChainID))
		if once {
			return nil
		}
	}
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: relay-approver [flags]\n\nAnswers storefront relay pairing requests.\n\nFlags:\n")
	flagSet.PrintDefaults()
}
