package container

import (
	"github.com/budstack/stepflow/config"
	"github.com/budstack/stepflow/model"
	"github.com/budstack/stepflow/persistence"
	"github.com/budstack/stepflow/persistence/inmem"
	rd "github.com/budstack/stepflow/persistence/redis"
	"github.com/budstack/stepflow/util"
)

type DIContainer struct {
	initialized     bool
	metadataStorage persistence.MetadataStorage
	sessionStorage  persistence.SessionStorage
	WizardEncDec    util.EncoderDecoder[model.Wizard]
	SessionEncDec   util.EncoderDecoder[model.SessionContext]
}

func NewDiContainer() *DIContainer {
	return &DIContainer{
		initialized: false,
	}
}

func (d *DIContainer) setInitialized() {
	d.initialized = true
}

func (d *DIContainer) Init(conf config.Config) {
	defer d.setInitialized()

	d.WizardEncDec = util.NewJsonEncoderDecoder[model.Wizard]()
	d.SessionEncDec = util.NewJsonEncoderDecoder[model.SessionContext]()

	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		rdConf := rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
		}
		d.metadataStorage = rd.NewRedisMetadataStorage(rdConf, d.WizardEncDec)
		d.sessionStorage = rd.NewRedisSessionDao(rdConf, d.SessionEncDec)
	default:
		storage := inmem.NewInmemStorage(conf.SessionTTL)
		d.metadataStorage = storage
		d.sessionStorage = storage
	}
}

func (d *DIContainer) GetMetadataStorage() persistence.MetadataStorage {
	if !d.initialized {
		panic("persistence not initialized")
	}
	return d.metadataStorage
}

func (d *DIContainer) GetSessionStorage() persistence.SessionStorage {
	if !d.initialized {
		panic("persistence not initialized")
	}
	return d.sessionStorage
}
