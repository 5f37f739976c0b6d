package config

import (
	"os"
	"strconv"
)

type MinioConfig struct {
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"use_ssl"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucket"`
}

func (c *MinioConfig) applyEnv() {
	setFromEnv(&c.AccessKey, "MINIO_ACCESS_KEY")
	setFromEnv(&c.SecretKey, "MINIO_SECRET_KEY")
	setFromEnv(&c.Endpoint, "MINIO_ENDPOINT")
	setFromEnv(&c.Region, "MINIO_REGION")
	setFromEnv(&c.BucketName, "MINIO_BUCKET_NAME")
	if v, err := strconv.ParseBool(os.Getenv("MINIO_USE_SSL")); err == nil {
		c.UseSSL = v
	}
}
