package cron

import (
	"github.com/jasonlvhit/gocron"
	"github.com/nubex/bankcore/config"
	"github.com/nubex/bankcore/pricing"
)

type MarketPriceJob struct {
}

func (j *MarketPriceJob) Process() {
	s := gocron.NewScheduler()
	s.Every(1).Day().At("00:00:00").Do(simulateMarketPrices)
	<-s.Start()
}

func simulateMarketPrices() {
	simulator := pricing.NewSimulator(nil)

	updates, err := simulator.SimulateMarketVariation()
	if err != nil {
		config.Logger.Errorf("[cron.market_price] simulation failed: %v", err)
		return
	}

	for _, update := range updates {
		config.Logger.Infof("[cron.market_price] %s %s -> %s (%s%%)", update.Symbol, update.OldPrice, update.NewPrice, update.Variation)
	}
}
