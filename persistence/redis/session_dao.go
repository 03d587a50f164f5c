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

const SESSION_KEY string = "SESSION"

var _ persistence.SessionStorage = new(redisSessionDao)

type redisSessionDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.SessionContext]
}

func NewRedisSessionDao(conf Config, encoderDecoder util.EncoderDecoder[model.SessionContext]) *redisSessionDao {
	return &redisSessionDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: encoderDecoder,
	}
}

func (rs *redisSessionDao) SaveSessionContext(wizard string, sessionId string, sessCtx *model.SessionContext) error {
	key := rs.baseDao.getNamespaceKey(SESSION_KEY, wizard)
	ctx := context.Background()
	data, err := rs.encoderDecoder.Encode(*sessCtx)
	if err != nil {
		return err
	}
	if err := rs.baseDao.redisClient.HSet(ctx, key, sessionId, string(data)).Err(); err != nil {
		logger.Error("error in saving session context", zap.String("wizard", wizard), zap.String("sessionId", sessionId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rs *redisSessionDao) GetSessionContext(wizard string, sessionId string) (*model.SessionContext, error) {
	key := rs.baseDao.getNamespaceKey(SESSION_KEY, wizard)
	ctx := context.Background()
	sessCtxStr, err := rs.baseDao.redisClient.HGet(ctx, key, sessionId).Result()
	if err != nil {
		if err == rd.Nil {
			return nil, persistence.NotFoundError{Kind: "session", Name: sessionId}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	sessCtx, err := rs.encoderDecoder.Decode([]byte(sessCtxStr))
	if err != nil {
		return nil, err
	}
	return sessCtx, nil
}

func (rs *redisSessionDao) DeleteSessionContext(wizard string, sessionId string) error {
	key := rs.baseDao.getNamespaceKey(SESSION_KEY, wizard)
	ctx := context.Background()
	if err := rs.baseDao.redisClient.HDel(ctx, key, sessionId).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
