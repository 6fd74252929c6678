package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./contacts.db"

	// DefaultContactsPerPage is the page size of the contact selection screen
	DefaultContactsPerPage = 50

	// DefaultGoogleContactsURL is the Google contacts feed read by the Google importer
	DefaultGoogleContactsURL = "https://www.google.com/m8/feeds/contacts/default/full?alt=json&max-results=1000"

	// DefaultYahooAPIURL is the base URL of the Yahoo social API
	DefaultYahooAPIURL = "https://social.yahooapis.com"
)
