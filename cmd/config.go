package cmd

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	PaymentServiceURL     string
	CourierServiceURL     string
	CatalogServiceURL     string
	CollaboratorTimeout   string
	KafkaHost             string
	KafkaOrderEventsTopic string
}
