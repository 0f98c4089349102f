package config

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the aurapaste service.
type Config struct {
	Port           int    `json:"port"`
	BaseURL        string `json:"base_url"`
	SlugLength     int    `json:"slug_length"`
	StorageBackend string `json:"storage_backend"`
	DataDir        string `json:"data_dir"`
	MongoURI       string `json:"mongo_uri"`
	MongoDatabase  string `json:"mongo_database"`
	DynamoTable    string `json:"dynamo_table"`
	AWSRegion      string `json:"aws_region"`
	Version        string `json:"version"`
	BuildTime      string `json:"build_time"`
	CommitHash     string `json:"commit_hash"`
}

// LoadConfig loads configuration from an optional .env file, CLI flags, and
// AURAPASTE_* environment variables. Environment wins over flags.
func LoadConfig() *Config {
	// Missing .env is fine; environment may already be populated.
	_ = godotenv.Load()

	config := &Config{
		Port:           8080,
		BaseURL:        "http://localhost:8080",
		SlugLength:     8,
		StorageBackend: "filesystem",
		DataDir:        "./data",
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "aurapaste",
		DynamoTable:    "aurapaste-pastes",
		AWSRegion:      "us-east-1",
	}

	flag.IntVar(&config.Port, "port", config.Port, "Port to listen on")
	flag.StringVar(&config.BaseURL, "base-url", config.BaseURL, "Base URL embedded in paste links")
	flag.IntVar(&config.SlugLength, "slug-length", config.SlugLength, "Length of generated paste identifiers")
	flag.StringVar(&config.StorageBackend, "storage", config.StorageBackend, "Storage backend (mongodb, dynamodb, filesystem, memory)")
	flag.StringVar(&config.DataDir, "data-dir", config.DataDir, "Data directory for the filesystem backend")
	flag.StringVar(&config.MongoURI, "mongo-uri", config.MongoURI, "MongoDB connection URI")
	flag.StringVar(&config.MongoDatabase, "mongo-db", config.MongoDatabase, "MongoDB database name")
	flag.StringVar(&config.DynamoTable, "dynamo-table", config.DynamoTable, "DynamoDB table name")
	flag.StringVar(&config.AWSRegion, "aws-region", config.AWSRegion, "AWS region for DynamoDB")
	flag.Parse()

	if val := os.Getenv("AURAPASTE_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			config.Port = port
		}
	}
	if val := os.Getenv("AURAPASTE_BASE_URL"); val != "" {
		config.BaseURL = val
	}
	if val := os.Getenv("AURAPASTE_SLUG_LENGTH"); val != "" {
		if length, err := strconv.Atoi(val); err == nil {
			config.SlugLength = length
		}
	}
	if val := os.Getenv("AURAPASTE_STORAGE"); val != "" {
		config.StorageBackend = val
	}
	if val := os.Getenv("AURAPASTE_DATA_DIR"); val != "" {
		config.DataDir = val
	}
	if val := os.Getenv("AURAPASTE_MONGO_URI"); val != "" {
		config.MongoURI = val
	}
	if val := os.Getenv("AURAPASTE_MONGO_DB"); val != "" {
		config.MongoDatabase = val
	}
	if val := os.Getenv("AURAPASTE_DYNAMO_TABLE"); val != "" {
		config.DynamoTable = val
	}
	if val := os.Getenv("AURAPASTE_AWS_REGION"); val != "" {
		config.AWSRegion = val
	}

	return config
}
