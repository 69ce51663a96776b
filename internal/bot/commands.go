package bot

const (
	CommandStart       = "start"
	CommandHelp        = "help"
	CommandGuide       = "guide"
	CommandStats       = "stats"
	CommandTiers       = "tiers"
	CommandTracked     = "tracked"
	CommandTopWhales   = "topwhales"
	CommandPerformance = "performance"
	CommandMultiBuys   = "multibuys"
	CommandPromotions  = "promotions"
	CommandLastBuys    = "lastbuys"
	CommandFilters     = "filters"

	// Admin-only.
	CommandPause       = "pause"
	CommandResume      = "resume"
	CommandSetFilter   = "setfilter"
	CommandAddWhale    = "addwhale"
	CommandRemoveWhale = "removewhale"
)

const adminDeniedMessage = "Admin only"

const unknownCommandMessage = "Unknown command. Use /help"
