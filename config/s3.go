package config

import (
	"os"
)

type S3Config struct {
	BucketName string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

// applyEnv 环境变量优先于配置文件
func (c *S3Config) applyEnv() {
	setFromEnv(&c.BucketName, "AWS_S3_BUCKET_NAME")
	setFromEnv(&c.Region, "AWS_REGION")
	setFromEnv(&c.Endpoint, "AWS_ENDPOINT")
	setFromEnv(&c.AccessKey, "AWS_ACCESS_KEY")
	setFromEnv(&c.SecretKey, "AWS_SECRET_KEY")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
