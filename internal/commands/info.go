package commands

// Start is the greeting for the /start command.
func (a *App) Start() string {
	return "Hi\\! I can tell you the current price of any crypto\\. Type:\n\n" +
		"`/p <crypto_symbol>`\n\n" +
		"For example, `/p btc` gives you the current price of Bitcoin\\. Enjoy\\!\n\n" +
		"To display the complete list of commands, type /help"
}

// Help lists every command.
func (a *App) Help() string {
	return "📚 *List of Commands:*\n\n" +
		"`/p <crypto_symbol>` \\- current price and historical variation from CoinGecko\n" +
		"`/c <crypto_symbol>` \\- price chart in different timeframes\n" +
		"`/cmc <crypto_symbol>` \\- current price and historical variation from CoinMarketCap\n" +
		"`/ll <chain> <contract>` \\- token price by contract address\n" +
		"/chart\\_color \\- select chart color theme\n" +
		"/cmckey \\- CoinMarketCap api key usage\n" +
		"/dom \\- top 10 most capitalized tokens\n" +
		"/gas \\- real\\-time gas fees on Ethereum\n" +
		"/news \\- CoinDesk news\n" +
		"/help \\- this message"
}
