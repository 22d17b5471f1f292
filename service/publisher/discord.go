package publisher

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain"
	"github.com/kreana/goapi/domain/factory"
)

type messenger interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error)
}

type discordSink struct {
	session   messenger
	channelId string
}

// NewDiscord posts NFT trades and creator token trades to a channel
func NewDiscord(botKey, channelId string) (*discordSink, error) {
	session, err := discordgo.New(fmt.Sprintf("Bot %s", botKey))
	if err != nil {
		return nil, err
	}
	return &discordSink{session: session, channelId: channelId}, nil
}

func (s *discordSink) Name() string {
	return "discord"
}

func (s *discordSink) Send(c ctx.Ctx, events []factory.Event) error {
	for _, evt := range events {
		msg := tradeEmbed(evt)
		if msg == nil {
			continue
		}
		if _, err := s.session.ChannelMessageSendEmbed(s.channelId, msg); err != nil {
			c.WithField("err", err).WithField("event", evt.Name).Error("discord.ChannelMessageSendEmbed failed")
			return err
		}
	}
	return nil
}

// tradeEmbed returns nil for events nobody is notified about
func tradeEmbed(evt factory.Event) *discordgo.MessageEmbed {
	switch args := evt.Args.(type) {
	case factory.TradeArgs:
		return &discordgo.MessageEmbed{
			Title:       "Item sold!",
			Description: fmt.Sprintf("%s #%s", args.NftAddress, args.TokenId),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Seller", Value: string(args.SellerAddress)},
				{Name: "Buyer", Value: string(args.BidderAddress)},
				{Name: "Price", Value: etherString(args.WeiPriceEach)},
				{Name: "Tx", Value: string(evt.TxHash)},
			},
		}
	case factory.CreatorTokenTransactionArgs:
		title := "Creator token bought!"
		if args.TransactionType == factory.TransactionTypeSell {
			title = "Creator token sold!"
		}
		return &discordgo.MessageEmbed{
			Title:       title,
			Description: fmt.Sprintf("%s (%s) #%d", args.Name, args.Symbol, args.TokenId),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Account", Value: string(args.Account)},
				{Name: "Amount", Value: strconv.FormatUint(args.Amount, 10)},
				{Name: "Value", Value: etherString(args.Value)},
				{Name: "Tx", Value: string(evt.TxHash)},
			},
		}
	}
	return nil
}

func etherString(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei + " wei"
	}
	return domain.WeiToEther(v) + " ETH"
}
