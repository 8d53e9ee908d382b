package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CarrierBaseURL        string
	CarrierTimeoutSeconds int
	InvoiceServiceURL     string

	TrackingReconcileCron    string
	TrackingStalenessMinutes int
	ReconcileWorkers         int

	ShipFromName       string
	ShipFromLine1      string
	ShipFromLine2      string
	ShipFromCity       string
	ShipFromState      string
	ShipFromPostalCode string
	ShipFromCountry    string
	ShipFromPhone      string
}
