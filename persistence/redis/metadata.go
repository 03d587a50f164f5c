package redis

import (
	"context"

	"github.com/budstack/stepflow/logger"
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
	"github.com/budstack/stepflow/util"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const METADATA_KEY string = "WIZARD"

var _ persistence.MetadataStorage = new(redisMetadataStorage)

type redisMetadataStorage struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.Wizard]
}

func NewRedisMetadataStorage(conf Config, encoderDecoder util.EncoderDecoder[model.Wizard]) *redisMetadataStorage {
	return &redisMetadataStorage{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: encoderDecoder,
	}
}

func (r *redisMetadataStorage) SaveWizard(wz model.Wizard) error {
	key := r.baseDao.getNamespaceKey(METADATA_KEY)
	ctx := context.Background()
	data, err := r.encoderDecoder.Encode(wz)
	if err != nil {
		return err
	}
	if err := r.baseDao.redisClient.HSet(ctx, key, wz.Name, string(data)).Err(); err != nil {
		logger.Error("error in saving wizard definition", zap.String("wizard", wz.Name), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisMetadataStorage) DeleteWizard(name string) error {
	key := r.baseDao.getNamespaceKey(METADATA_KEY)
	ctx := context.Background()
	if err := r.baseDao.redisClient.HDel(ctx, key, name).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisMetadataStorage) GetWizard(name string) (*model.Wizard, error) {
	key := r.baseDao.getNamespaceKey(METADATA_KEY)
	ctx := context.Background()
	wzStr, err := r.baseDao.redisClient.HGet(ctx, key, name).Result()
	if err != nil {
		if err == rd.Nil {
			return nil, persistence.NotFoundError{Kind: "wizard", Name: name}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	wz, err := r.encoderDecoder.Decode([]byte(wzStr))
	if err != nil {
		return nil, err
	}
	return wz, nil
}

func (r *redisMetadataStorage) ListWizards() ([]string, error) {
	key := r.baseDao.getNamespaceKey(METADATA_KEY)
	ctx := context.Background()
	names, err := r.baseDao.redisClient.HKeys(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return names, nil
}
